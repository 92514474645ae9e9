package httperrors

import (
	"net/http"

	"github.com/fedmcp/fmcpx/internal/types"
)

var (
	ErrUpstreamFailed    = NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeUpstreamFailed, "Upstream query failed.")
	ErrSigningFailed     = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeSigningFailed, "Response could not be signed.")
	ErrSignatureInvalid  = NewHTTPError(http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeSignatureInvalid, "Signature invalid.")
	ErrEmployeeNotFound  = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeEmployeeNotFound, "Employee not found.")
	ErrSigningKeyMissing = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeServiceUnavailable, "Signing key not available.")
)
