package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried by APIError
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeMissingContentType   = "MISSING_CONTENT_TYPE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeRateLimited          = "RATE_LIMIT_EXCEEDED"
)

// APIError is a request-level failure detected before any reconciliation
// work starts: bad query parameters, wrong content type and the like.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Problem converts the error to RFC 7807 form for the request r.
func (e *APIError) Problem(r *http.Request) *ProblemDetails {
	problem := NewProblemDetails(
		e.StatusCode,
		problemTypeForCode(e.ErrorCode),
		http.StatusText(e.StatusCode),
		e.Message,
		r.URL.Path,
	).WithExtension("error_code", e.ErrorCode).WithRequest(r)

	if e.Details != nil {
		problem.WithExtension("details", e.Details)
	}
	return problem
}

// Render implements render.Renderer so middleware without an ErrorHandler
// can respond directly. The body is still a problem document.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// Respond writes e as a problem document
func (e *APIError) Respond(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, e.Problem(r))
}

func problemTypeForCode(code string) string {
	switch code {
	case CodeValidationFailed, CodeInvalidRequest, CodeMissingContentType, CodeUnsupportedMediaType:
		return TypeValidation
	case CodeRateLimited:
		return TypeRateLimit
	default:
		return TypeInternal
	}
}

// ValidationError names one failing request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a failed struct validation
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates an APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError carrying a details payload
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// InvalidRequestWithError reports a request that could not be decoded
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation reports a single bad field
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors reports every failing field at once
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}
