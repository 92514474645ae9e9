package connector

import (
	"net/http"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/api/httperrors"
	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/fedmcp/fmcpx/internal/types"
	"github.com/fedmcp/fmcpx/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostVerifyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/verify", postVerifyHandler(s))
}

func postVerifyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostVerifyPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		payload, err := s.Verifier.Verify(ctx, swag.StringValue(body.SignedResponse))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSignatureInvalid):
				s.Metrics.ObserveVerification(false)
				return httperrors.ErrSignatureInvalid
			case errors.Is(err, domain.ErrConfiguration):
				log.Error().Err(err).Msg("Signing key not available for verification")
				return httperrors.ErrSigningKeyMissing
			default:
				log.Error().Err(err).Msg("Failed to verify signed response")
				return err
			}
		}
		s.Metrics.ObserveVerification(true)

		return util.ValidateAndReturn(c, http.StatusOK, &types.VerifyResponse{
			Valid: swag.Bool(true),
			Data:  payload,
		})
	}
}
