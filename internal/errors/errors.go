package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Response bodies returned to API clients
const (
	MsgEndpointMissing = "Endpoint not provided. Please specify the endpoint in the URL."
	MsgCountryMissing  = "Country code not provided. Please specify the country code in the URL."
	MsgInvalidEndpoint = "Invalid endpoint. Supported endpoints are 'rolling-five-days' and 'total-data'."
	MsgInvalidFormat   = "Invalid format. Supported formats are 'json', 'csv' and 'xlsx'."
	MsgNoDataFound     = "No data found."
	msgCountryNotFound = "No data found for country code %s in the last five days."
)

// Error codes carried in the X-Error-Code header
const (
	CodeEndpointMissing  = "ENDPOINT_MISSING"
	CodeCountryMissing   = "COUNTRY_CODE_MISSING"
	CodeInvalidEndpoint  = "INVALID_ENDPOINT"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeValidation       = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeRouteNotFound    = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	CodeProcessing       = "PROCESSING_ERROR"
	CodeTimeout          = "REQUEST_TIMEOUT"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// APIError represents an error response sent to an API client
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes a rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors for request validation. The handler never mutates them.
var (
	ErrEndpointMissing = New(http.StatusBadRequest, CodeEndpointMissing, MsgEndpointMissing)
	ErrCountryMissing  = New(http.StatusBadRequest, CodeCountryMissing, MsgCountryMissing)
	ErrInvalidEndpoint = New(http.StatusBadRequest, CodeInvalidEndpoint, MsgInvalidEndpoint)
	ErrInvalidFormat   = New(http.StatusBadRequest, CodeInvalidFormat, MsgInvalidFormat)

	ErrNoDataFound = New(http.StatusNotFound, CodeNotFound, MsgNoDataFound)

	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimit, "Rate limit exceeded. Please retry later.")
	ErrTimeout           = New(http.StatusGatewayTimeout, CodeTimeout, "Error: request timed out")
)

// ErrValidation creates a 400 error for a single field with message as body
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidation, message, ValidationError{
		Field:   field,
		Message: message,
	})
}

// CountryNotFound creates the 404 returned when a country has no rows in
// the window
func CountryNotFound(countryCode string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound,
		fmt.Sprintf(msgCountryNotFound, countryCode), countryCode)
}

// Processing wraps an unexpected load, clean, query or storage fault
func Processing(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeProcessing, "Error: "+err.Error(), err.Error())
}

// ErrPanic creates the error rendered after a recovered panic
func ErrPanic(rec interface{}, expose bool) *APIError {
	msg := "Error: internal server error"
	if expose {
		msg = fmt.Sprintf("Error: %v", rec)
	}
	return New(http.StatusInternalServerError, CodeInternal, msg)
}
