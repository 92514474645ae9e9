package httperrors

import (
	"net/http"

	"github.com/fedmcp/fmcpx/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type HTTPErrorHandlerConfig struct {
	// HideInternalServerErrorDetails keeps the message of unexpected errors
	// out of the 500 response body.
	HideInternalServerErrorDetails bool
}

// HTTPErrorHandler renders every error as a types.PublicHTTPError. Errors that
// are not *HTTPError become a generic 500 without leaking their message.
func HTTPErrorHandler(err error, c echo.Context) {
	HTTPErrorHandlerWithConfig(HTTPErrorHandlerConfig{HideInternalServerErrorDetails: true})(err, c)
}

// HTTPErrorHandlerWithConfig is HTTPErrorHandler with configurable detail
// exposure for unexpected errors.
func HTTPErrorHandlerWithConfig(config HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		handleError(config, err, c)
	}
}

func handleError(config HTTPErrorHandlerConfig, err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *HTTPError
	switch e := err.(type) {
	case *HTTPError:
		he = e
	case *echo.HTTPError:
		he = NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, http.StatusText(e.Code))
		he.Internal = e
	default:
		he = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
		he.Internal = err
		if !config.HideInternalServerErrorDetails {
			he.Detail = err.Error()
		}
	}

	l := log.Ctx(c.Request().Context())
	if he.Code >= http.StatusInternalServerError {
		l.Error().Err(he.Internal).Int64("status", he.Code).Str("title", he.Title).Msg("Request failed")
	} else {
		l.Debug().Err(he.Internal).Int64("status", he.Code).Str("title", he.Title).Msg("Request rejected")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(int(he.Code))
	} else {
		writeErr = c.JSON(int(he.Code), he.PublicHTTPError)
	}
	if writeErr != nil {
		l.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
