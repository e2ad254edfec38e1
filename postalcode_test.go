package postalcode

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// failingTransport fails the test if any request is attempted.
type failingTransport struct {
	t *testing.T
}

func (f failingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.t.Errorf("unexpected network call to %s", r.URL)
	return nil, errors.New("network disabled")
}

// bringStub serves a fixed Bring response and counts requests.
func bringStub(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func offline(t *testing.T) Option {
	return WithHTTPClient(&http.Client{Transport: failingTransport{t: t}})
}

func TestValidTypes(t *testing.T) {
	t.Parallel()

	v := New(false, offline(t))

	if v.Valid(Int(0)) {
		t.Error("0 should not be valid")
	}
	if v.Valid(String("0")) {
		t.Error(`"0" should not be valid`)
	}
	if !v.Valid(Int(11220)) {
		t.Error("11220 should be valid")
	}
	if !v.Valid(String("11220")) {
		t.Error(`"11220" should be valid`)
	}
}

func TestValidConsistentAcrossTypes(t *testing.T) {
	t.Parallel()

	v := New(false, offline(t))
	codes := []LooksLikePostalCode{
		Uint(11220), Uint16(11220), Uint32(11220), Uint64(11220),
		Int(11220), Int16(11220), Int32(11220), Int64(11220),
		Float32(11220), Float64(11220.7), String("11220"),
	}
	for _, code := range codes {
		if !v.Valid(code) {
			t.Errorf("%T(11220) should be valid", code)
		}
	}
}

func TestValidUnparseableText(t *testing.T) {
	t.Parallel()

	v := New(false, offline(t))
	for _, text := range []string{"", "abc", "112 20", "-11220"} {
		if v.Valid(String(text)) {
			t.Errorf("%q should not be valid", text)
		}
	}
}

func TestValidWithoutFallbackMakesNoNetworkCalls(t *testing.T) {
	t.Parallel()

	srv, calls := bringStub(t, http.StatusOK, `{"result":"Gyldig postnummer","valid":true,"postalCodeType":"NORMAL"}`)
	v := New(false, WithEndpoint(srv.URL))

	if v.Valid(Int(99999)) {
		t.Error("99999 is not in the table and fallback is disabled")
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("made %d network calls, want 0", n)
	}
}

func TestValidLocalHitMakesNoNetworkCalls(t *testing.T) {
	t.Parallel()

	srv, calls := bringStub(t, http.StatusOK, `{"valid":false}`)
	v := New(true, WithEndpoint(srv.URL))

	if !v.Valid(Int(11220)) {
		t.Error("11220 should be valid from the local table")
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("made %d network calls, want 0", n)
	}
}

func TestValidFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"valid", http.StatusOK, `{"result":"Gyldig postnummer","valid":true,"postalCodeType":"NORMAL"}`, true},
		{"only valid field", http.StatusOK, `{"valid": true}`, true},
		{"invalid", http.StatusOK, `{"result":"Ugyldig postnummer","valid":false,"postalCodeType":""}`, false},
		{"malformed json", http.StatusOK, `{"valid": tru`, false},
		{"not json", http.StatusOK, `<html></html>`, false},
		{"server error", http.StatusInternalServerError, `{"valid": true}`, false},
		{"not found", http.StatusNotFound, `{"valid": true}`, false},
		{"trailing garbage", http.StatusOK, `{"valid":true}garbage`, false},
		{"two values", http.StatusOK, `{"valid":true}{"valid":false}`, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, calls := bringStub(t, tt.status, tt.body)
			v := New(true, WithEndpoint(srv.URL))

			if got := v.Valid(Int(99999)); got != tt.want {
				t.Errorf("Valid(99999) = %v, want %v", got, tt.want)
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("made %d network calls, want 1", n)
			}
		})
	}
}

func TestValidFallbackTransportError(t *testing.T) {
	t.Parallel()

	srv, _ := bringStub(t, http.StatusOK, `{"valid": true}`)
	endpoint := srv.URL
	srv.Close()

	v := New(true, WithEndpoint(endpoint))
	if v.Valid(Int(99999)) {
		t.Error("an unreachable Bring API should give invalid")
	}
}

func TestValidIdempotent(t *testing.T) {
	t.Parallel()

	srv, _ := bringStub(t, http.StatusOK, `{"valid": true}`)
	v := New(true, WithEndpoint(srv.URL))
	size := v.Len()

	for i := 0; i < 3; i++ {
		if !v.Valid(Int(11220)) {
			t.Fatal("11220 should stay valid")
		}
		if !v.Valid(Int(99999)) {
			t.Fatal("99999 should stay valid according to Bring")
		}
	}
	if v.Len() != size {
		t.Errorf("table size changed from %d to %d", size, v.Len())
	}
	if _, ok := v.City(Int(99999)); ok {
		t.Error("Bring results must not be added to the table")
	}
}

func TestQueryBring(t *testing.T) {
	t.Parallel()

	queries := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		_, _ = w.Write([]byte(`{"result":"Gyldig postnummer","valid":true,"postalCodeType":"NORMAL"}`))
	}))
	defer srv.Close()

	v := New(true, WithEndpoint(srv.URL))
	resp, ok := v.QueryBring(11220)
	if !ok {
		t.Fatal("QueryBring should succeed")
	}
	if gotQuery, want := <-queries, "clientUrl=swedish-postal-code&country=SE&pnr=11220"; gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if !resp.Valid || resp.Result != "Gyldig postnummer" || resp.PostalCodeType != "NORMAL" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestQueryBringFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"malformed json", http.StatusOK, `{`},
		{"bad gateway", http.StatusBadGateway, `{"valid":true}`},
		{"wrong type", http.StatusOK, `{"valid":"yes"}`},
		{"trailing garbage", http.StatusOK, `{"valid":true}garbage`},
		{"two values", http.StatusOK, `{"valid":true}{"valid":false}`},
		{"empty body", http.StatusOK, ``},
	}
	for _, tt := range tests {
		srv, _ := bringStub(t, tt.status, tt.body)
		v := New(true, WithEndpoint(srv.URL))
		if resp, ok := v.QueryBring(99999); ok || resp != nil {
			t.Errorf("%s: QueryBring = %+v, %v; want nil, false", tt.name, resp, ok)
		}
	}
}

func TestQueryBringPostalCodeTypeNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want string
	}{
		{`{"valid":true,"postalCodeType":"NORMAL"}`, "NORMAL"},
		{`{"valid":true,"postal_code_type":"POSTBOX"}`, "POSTBOX"},
		{`{"valid":true,"postalCodeType":"NORMAL","postal_code_type":"POSTBOX"}`, "NORMAL"},
		{`{"valid":true}`, ""},
	}
	for _, tt := range tests {
		srv, _ := bringStub(t, http.StatusOK, tt.body)
		v := New(true, WithEndpoint(srv.URL))
		resp, ok := v.QueryBring(99999)
		if !ok {
			t.Errorf("QueryBring(%s) failed", tt.body)
			continue
		}
		if !resp.Valid || resp.PostalCodeType != tt.want {
			t.Errorf("QueryBring(%s) = %+v, want type %q", tt.body, resp, tt.want)
		}
	}
}

func TestBringURL(t *testing.T) {
	t.Parallel()

	v := New(true, offline(t))
	want := "https://api.bring.com/shippingguide/api/postalCode.json?clientUrl=swedish-postal-code&country=SE&pnr=11220"
	if got := v.bringURL(11220); got != want {
		t.Errorf("bringURL = %q, want %q", got, want)
	}
}

func TestNewWithCorruptedDataset(t *testing.T) {
	t.Parallel()

	dataset := strings.Join([]string{
		"postal_code,city",
		"11220,Stockholm",
		"41101,Göteborg",
		"x,Broken",
		"21113,Malmö",
	}, "\n")
	v := New(false, WithDataset(strings.NewReader(dataset)), offline(t))

	if v.Len() != 2 {
		t.Errorf("Len = %d, want 2", v.Len())
	}
	if !v.Valid(Int(41101)) {
		t.Error("41101 precedes the bad row and should be valid")
	}
	if v.Valid(Int(21113)) {
		t.Error("21113 follows the bad row and should be missing")
	}
}

func TestNewWithBrokenFirstRow(t *testing.T) {
	t.Parallel()

	v := New(false, WithDataset(strings.NewReader("postal_code,city\nabc,Nowhere\n11220,Stockholm\n")), offline(t))
	if v.Len() != 0 {
		t.Errorf("Len = %d, want 0", v.Len())
	}
	if v.Valid(Int(11220)) {
		t.Error("an empty table should reject everything")
	}
}

func TestNewWithTableIsCopied(t *testing.T) {
	t.Parallel()

	table := map[uint32]string{11220: "Stockholm"}
	v := New(false, WithTable(table), offline(t))
	table[41101] = "Göteborg"

	if v.Valid(Int(41101)) {
		t.Error("mutating the caller's map must not change the validator")
	}
	codes := v.Codes()
	codes[21113] = "Malmö"
	if v.Valid(Int(21113)) {
		t.Error("mutating Codes() must not change the validator")
	}
}

func TestCity(t *testing.T) {
	t.Parallel()

	v := New(false, offline(t))
	if city, ok := v.City(String("11220")); !ok || city != "Stockholm" {
		t.Errorf("City(11220) = %q, %v", city, ok)
	}
	if _, ok := v.City(Int(0)); ok {
		t.Error("City(0) should not be found")
	}
}

func TestValidFreeFunction(t *testing.T) {
	t.Parallel()

	if !Valid(Int(11220)) {
		t.Error("Valid(11220) should be true")
	}
	if !Valid(String("11220")) {
		t.Error(`Valid("11220") should be true`)
	}
}

// Not parallel: swaps the package default endpoint.
func TestValidFreeFunctionFallsBackToBring(t *testing.T) {
	srv, calls := bringStub(t, http.StatusOK, `{"result":"Gyldig postnummer","valid":true,"postalCodeType":"NORMAL"}`)

	saved := bringEndpoint
	bringEndpoint = srv.URL
	defer func() { bringEndpoint = saved }()

	if !Valid(Int(99999)) {
		t.Error("Valid(99999) should use Bring for codes missing from the table")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("made %d network calls, want 1", n)
	}
}
