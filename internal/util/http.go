package util

import (
	"net/http"

	"github.com/fedmcp/fmcpx/internal/api/httperrors"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by the payload types in internal/types.
type Validatable interface {
	Validate(formats strfmt.Registry) error
}

// BindAndValidateBody binds the request body into v and validates it. Failures
// are returned as 400 errors ready to be handed back to echo.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind request body")
		return httperrors.NewFromEcho(err)
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates v before writing it as JSON with code, so
// handlers never answer with a payload that breaks its own schema.
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response payload failed validation")
		return httperrors.NewHTTPValidationError(http.StatusInternalServerError, "response payload is invalid", err)
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Request payload failed validation")
		return httperrors.NewHTTPValidationError(http.StatusBadRequest, "request payload is invalid", err)
	}
	return nil
}
