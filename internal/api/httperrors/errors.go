package httperrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fedmcp/fmcpx/internal/types"
	oerrors "github.com/go-openapi/errors"
	"github.com/labstack/echo/v4"
)

// HTTPError is returned by handlers and rendered by HTTPErrorHandler.
type HTTPError struct {
	types.PublicHTTPError
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType types.PublicHTTPErrorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  int64(code),
			Type:  errorType,
			Title: title,
		},
	}
}

func NewHTTPErrorWithDetail(code int, errorType types.PublicHTTPErrorType, title string, detail string) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Detail = detail
	return e
}

// NewHTTPValidationError turns a go-openapi validation error into a response
// listing every failing field.
func NewHTTPValidationError(code int, title string, err error) *HTTPError {
	e := NewHTTPError(code, types.PublicHTTPErrorTypeInvalidBody, title)
	e.Internal = err
	e.ValidationErrors = validationDetails(err)
	return e
}

// NewFromEcho wraps errors produced by echo's binder.
func NewFromEcho(err error) *HTTPError {
	if he, ok := err.(*echo.HTTPError); ok {
		e := NewHTTPError(he.Code, types.PublicHTTPErrorTypeInvalidBody, http.StatusText(he.Code))
		e.Detail = fmt.Sprint(he.Message)
		e.Internal = err
		return e
	}

	e := NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidBody, http.StatusText(http.StatusBadRequest))
	e.Internal = err
	return e
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}
	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

func validationDetails(err error) []*types.HTTPValidationErrorDetail {
	var out []*types.HTTPValidationErrorDetail

	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case *oerrors.CompositeError:
			for _, inner := range e.Errors {
				walk(inner)
			}
		case *oerrors.Validation:
			out = append(out, &types.HTTPValidationErrorDetail{
				Key:   e.Name,
				In:    e.In,
				Error: e.Error(),
			})
		default:
			out = append(out, &types.HTTPValidationErrorDetail{Error: err.Error()})
		}
	}
	if err != nil {
		walk(err)
	}

	return out
}
