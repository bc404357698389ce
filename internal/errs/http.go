package errs

import "strings"

// FieldError represents a field-level validation error.
//
//	{ "field": "price_per_hour", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error body every failed request responds with.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST", "CUSTOMER_REQUIRED").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: whether the client may display Message verbatim.
//   - Errors: per-field validation errors.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
