package partner

import "encoding/json"

// StatusCode is the closed enumeration of purchase states reported by the
// partner. Any value outside this set is treated as unexpected by the
// reconciliation engine.
type StatusCode string

const (
	StatusFavorable  StatusCode = "FAVORABLE"
	StatusFunded     StatusCode = "FUNDED"
	StatusPending    StatusCode = "PENDING"
	StatusRefused    StatusCode = "REFUSED"
	StatusAborted    StatusCode = "ABORTED"
	StatusCancelled  StatusCode = "CANCELLED"
	StatusToBeFunded StatusCode = "TO_BE_FUNDED"

	// StatusUnknown marks an absent or unparseable status
	StatusUnknown StatusCode = ""
)

// Known reports whether code belongs to the partner's documented set.
func (c StatusCode) Known() bool {
	switch c {
	case StatusFavorable, StatusFunded, StatusPending, StatusRefused,
		StatusAborted, StatusCancelled, StatusToBeFunded:
		return true
	}
	return false
}

// PurchaseStatus is the partner's view of one purchase. The label is
// advisory text only; control decisions use the code.
type PurchaseStatus struct {
	StatusCode  StatusCode `json:"status_code"`
	StatusLabel string     `json:"status_label,omitempty"`
}

// StatusResponse is the decoded form of a status, confirmation or refund
// response body. An absent Purchase means the body could not be parsed into
// either supported shape (plaintext or ciphered); callers treat that as a
// failure condition, never as success.
type StatusResponse struct {
	Purchase *PurchaseStatus `json:"purchase"`

	raw []byte
}

// HasStatus reports whether a purchase status was present in the body.
func (r StatusResponse) HasStatus() bool {
	return r.Purchase != nil && r.Purchase.StatusCode != StatusUnknown
}

// Code returns the purchase status code, StatusUnknown when absent.
func (r StatusResponse) Code() StatusCode {
	if r.Purchase == nil {
		return StatusUnknown
	}
	return r.Purchase.StatusCode
}

// Label returns the advisory status label, empty when absent.
func (r StatusResponse) Label() string {
	if r.Purchase == nil {
		return ""
	}
	return r.Purchase.StatusLabel
}

// AdditionalData returns the decoded response in serialized form, for
// correlation data handed back to the host platform.
func (r StatusResponse) AdditionalData() string {
	return string(r.raw)
}

// ErrorEntry is one business error in the partner's error list
type ErrorEntry struct {
	Field      string `json:"field"`
	ErrorCode  string `json:"error_code"`
	ErrorLabel string `json:"error_label,omitempty"`
}

// ErrorResponse is the partner's HTTP 400 error envelope.
type ErrorResponse struct {
	Content struct {
		Errors []ErrorEntry `json:"errors_list"`
	} `json:"Payments_Error_Response"`
}

// Errors returns the business error list, empty when none were present.
func (e *ErrorResponse) Errors() []ErrorEntry {
	if e == nil {
		return nil
	}
	return e.Content.Errors
}

// ParseErrorResponse decodes the partner's error envelope from a non-200
// body. Malformed bodies yield nil; the HTTP status alone then drives
// classification.
func ParseErrorResponse(body []byte) *ErrorResponse {
	if len(body) == 0 {
		return nil
	}
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	if len(resp.Content.Errors) == 0 {
		return nil
	}
	return &resp
}
