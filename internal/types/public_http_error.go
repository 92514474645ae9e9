package types

// PublicHTTPErrorType is the machine readable "type" of an error response.
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric            PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeInvalidBody        PublicHTTPErrorType = "INVALID_BODY"
	PublicHTTPErrorTypeUpstreamFailed     PublicHTTPErrorType = "UPSTREAM_FAILED"
	PublicHTTPErrorTypeSigningFailed      PublicHTTPErrorType = "SIGNING_FAILED"
	PublicHTTPErrorTypeSignatureInvalid   PublicHTTPErrorType = "SIGNATURE_INVALID"
	PublicHTTPErrorTypeEmployeeNotFound   PublicHTTPErrorType = "EMPLOYEE_NOT_FOUND"
	PublicHTTPErrorTypeServiceUnavailable PublicHTTPErrorType = "SERVICE_UNAVAILABLE"
)

// PublicHTTPError is the body of every error response.
type PublicHTTPError struct {
	// HTTP status code returned for the error
	Code int64 `json:"status"`

	// More detailed, human-readable, optional explanation of the error
	Detail string `json:"detail,omitempty"`

	// Short, human-readable description of the error
	Title string `json:"title"`

	// Type of error returned, should be used for client-side error handling
	Type PublicHTTPErrorType `json:"type"`

	// List of errors received while validating the payload, only set for validation errors
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors,omitempty"`
}

type HTTPValidationErrorDetail struct {
	// Error describing field validation failure
	Error string `json:"error"`

	// Indicates how the invalid field was provided
	In string `json:"in"`

	// Key of field failing validation
	Key string `json:"key"`
}
