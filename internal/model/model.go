package model

// ValidateResponse is returned by the /validate endpoint.
type ValidateResponse struct {
	Code      string `json:"code"`
	Canonical uint32 `json:"canonical"`
	Valid     bool   `json:"valid"`
	City      string `json:"city,omitempty"`
}

// StatsResponse is returned by the /stats endpoint.
type StatsResponse struct {
	TableSize    int    `json:"table_size"`
	TableSource  string `json:"table_source"`
	HTTPFallback bool   `json:"http_fallback"`
}

// ErrorResponse is returned on error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
