// Package postalcode validates Swedish postal codes against an embedded
// table of known codes, optionally falling back to the Bring API for codes
// the table does not know about.
//
// The embedded table covers the postal codes of the larger Swedish
// localities, not the full national register. Without fallback many real
// codes are reported invalid; load a complete table with WithTable or
// WithDataset when running offline.
//
// A Validator is read-only after New returns and may be shared between
// goroutines.
package postalcode

import (
	"io"
	"maps"
	"net/http"
)

// Validator holds the table of known postal codes and a client for querying
// Bring about codes that are not in it.
type Validator struct {
	client       *http.Client
	endpoint     string
	codes        map[uint32]string
	httpFallback bool
}

// Option configures a Validator.
type Option func(*options)

type options struct {
	client   *http.Client
	endpoint string
	dataset  io.Reader
	table    map[uint32]string
}

// WithHTTPClient sets the client used for Bring queries.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithEndpoint overrides the Bring API URL (without query string).
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithDataset reads the table from r instead of the embedded CSV.
func WithDataset(r io.Reader) Option {
	return func(o *options) { o.dataset = r }
}

// WithTable uses a copy of table instead of loading a CSV dataset. It takes
// precedence over WithDataset.
func WithTable(table map[uint32]string) Option {
	return func(o *options) { o.table = table }
}

// New creates a Validator. It loads the embedded postal code table and, when
// httpFallback is set, uses the Bring API for codes missing from it.
func New(httpFallback bool, opts ...Option) *Validator {
	o := options{endpoint: bringEndpoint}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{}
	}

	var codes map[uint32]string
	switch {
	case o.table != nil:
		codes = maps.Clone(o.table)
	case o.dataset != nil:
		codes = loadDataset(o.dataset)
	default:
		codes = loadDataset(embeddedReader())
	}

	return &Validator{
		client:       o.client,
		endpoint:     o.endpoint,
		codes:        codes,
		httpFallback: httpFallback,
	}
}

// Valid validates code with a fresh fallback-enabled Validator. The table is
// reloaded on every call; hold a Validator for repeated use.
func Valid(code LooksLikePostalCode) bool {
	return New(true).Valid(code)
}

// Valid reports whether code is a known postal code. Codes missing from the
// table are checked with Bring when fallback is enabled; a failed Bring query
// counts as invalid.
func (v *Validator) Valid(code LooksLikePostalCode) bool {
	c := code.AsUint32()
	if _, ok := v.codes[c]; ok {
		return true
	}
	if !v.httpFallback {
		return false
	}
	return v.validAccordingToBring(c)
}

// City returns the locality for code from the local table.
func (v *Validator) City(code LooksLikePostalCode) (string, bool) {
	city, ok := v.codes[code.AsUint32()]
	return city, ok
}

// Len returns the number of postal codes in the local table.
func (v *Validator) Len() int {
	return len(v.codes)
}

// HTTPFallback reports whether codes missing from the table are checked
// with Bring.
func (v *Validator) HTTPFallback() bool {
	return v.httpFallback
}

// Codes returns a copy of the local table.
func (v *Validator) Codes() map[uint32]string {
	return maps.Clone(v.codes)
}
