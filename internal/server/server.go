package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	postalcode "github.com/akl7777777/se-postalcode"
	"github.com/akl7777777/se-postalcode/internal/model"
)

// Server is the HTTP server.
type Server struct {
	validator   *postalcode.Validator
	tableSource string
	authKey     string
	mux         *http.ServeMux
}

// New creates a new HTTP server. tableSource describes where the reference
// table came from and is reported by /stats.
func New(v *postalcode.Validator, tableSource, authKey string) *Server {
	s := &Server{
		validator:   v,
		tableSource: tableSource,
		authKey:     authKey,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/validate/", s.handleValidate)
	s.mux.HandleFunc("/api/v1/bring/", s.handleBring)
	s.mux.HandleFunc("/api/v1/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/stats", s.handleStats)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Auth check (skip for health endpoint)
	if s.authKey != "" && r.URL.Path != "/api/v1/health" {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if token != s.authKey {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			log.Printf("[http] %s %s 401 unauthorized %s", r.Method, r.URL.Path, time.Since(start))
			return
		}
	}

	s.mux.ServeHTTP(w, r)

	log.Printf("[http] %s %s %s", r.Method, r.URL.Path, time.Since(start))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Extract code from path: /api/v1/validate/{code}. No normalization.
	code := postalcode.String(strings.TrimPrefix(r.URL.Path, "/api/v1/validate/"))

	resp := &model.ValidateResponse{
		Code:      string(code),
		Canonical: code.AsUint32(),
		Valid:     s.validator.Valid(code),
	}
	resp.City, _ = s.validator.City(code)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	code := postalcode.String(strings.TrimPrefix(r.URL.Path, "/api/v1/bring/"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "postal code required")
		return
	}

	resp, ok := s.validator.QueryBring(code.AsUint32())
	if !ok {
		writeError(w, http.StatusBadGateway, "bring query failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &model.StatsResponse{
		TableSize:    s.validator.Len(),
		TableSource:  s.tableSource,
		HTTPFallback: s.validator.HTTPFallback(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &model.ErrorResponse{
		Error: msg,
		Code:  status,
	})
}
