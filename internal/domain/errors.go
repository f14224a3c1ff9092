package domain

// APIError is the problem-details body returned for every failed request
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// validationMessages maps validator tags without a dedicated formatter to text
var validationMessages = map[string]string{
	"required_if":      "This field is required for the selected category",
	"required_without": "Either this field or the project must be set",
	"datetime":         "Must be a date in YYYY-MM-DD format",
	"dive":             "Contains an invalid item",
	"numeric":          "Must be a numeric value",
	"len":              "Must be exactly the specified length",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Problem types used in APIError.Type
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeNotFound      = "not_found"
	ErrorTypeBadRequest    = "bad_request"
	ErrorTypeConflict      = "conflict"
	ErrorTypeUnauthorized  = "unauthorized"
	ErrorTypeLocked        = "locked"
	ErrorTypeUnprocessable = "unprocessable"
	ErrorTypeInternal      = "internal_error"
)
