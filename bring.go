package postalcode

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
)

// DefaultBringEndpoint is the Bring shipping guide postal code API.
const DefaultBringEndpoint = "https://api.bring.com/shippingguide/api/postalCode.json"

// bringEndpoint is the endpoint used when WithEndpoint is not given.
var bringEndpoint = DefaultBringEndpoint

const (
	bringClientURL = "swedish-postal-code"
	bringCountry   = "SE"
)

// BringResponse is the response from the Bring API for a single postal code.
// The postal code type is read from either postalCodeType or postal_code_type.
type BringResponse struct {
	Result         string `json:"result"`
	Valid          bool   `json:"valid"`
	PostalCodeType string `json:"postalCodeType"`
}

func (r *BringResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Result              string `json:"result"`
		Valid               bool   `json:"valid"`
		PostalCodeType      string `json:"postalCodeType"`
		PostalCodeTypeSnake string `json:"postal_code_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Result = raw.Result
	r.Valid = raw.Valid
	r.PostalCodeType = raw.PostalCodeType
	if r.PostalCodeType == "" {
		r.PostalCodeType = raw.PostalCodeTypeSnake
	}
	return nil
}

// QueryBring asks the Bring API whether code is a valid Swedish postal code.
// The second return value is false on any transport error, non-2xx status or
// undecodable body.
func (v *Validator) QueryBring(code uint32) (*BringResponse, bool) {
	var resp BringResponse
	if err := v.fetchJSON(v.bringURL(code), &resp); err != nil {
		log.Printf("[bring] Query for %d failed: %v", code, err)
		return nil, false
	}
	return &resp, true
}

// validAccordingToBring flattens every remote failure into false.
func (v *Validator) validAccordingToBring(code uint32) bool {
	resp, ok := v.QueryBring(code)
	if !ok {
		return false
	}
	return resp.Valid
}

func (v *Validator) bringURL(code uint32) string {
	q := url.Values{}
	q.Set("clientUrl", bringClientURL)
	q.Set("country", bringCountry)
	q.Set("pnr", strconv.FormatUint(uint64(code), 10))
	return v.endpoint + "?" + q.Encode()
}

func (v *Validator) fetchJSON(url string, target interface{}) error {
	resp, err := v.client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	// The body must hold exactly one JSON value.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}
