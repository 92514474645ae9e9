package connector

import (
	"net/http"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/api/httperrors"
	"github.com/fedmcp/fmcpx/internal/connector"
	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/fedmcp/fmcpx/internal/infra/audit"
	"github.com/fedmcp/fmcpx/internal/types"
	"github.com/fedmcp/fmcpx/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostQueryRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/query", postQueryHandler(s))
}

func postQueryHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostQueryPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		env, err := s.Bridge.ExecuteAsync(ctx, connector.Inputs{
			Query:     swag.StringValue(body.Query),
			Variables: body.Variables,
		}).Wait(ctx)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidInputs):
				return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidBody, "Invalid query.", err.Error())
			case errors.Is(err, domain.ErrUpstream):
				log.Warn().Err(err).Msg("Upstream query failed")
				return httperrors.ErrUpstreamFailed
			case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrSerialization):
				log.Error().Err(err).Msg("Failed to sign upstream result")
				return httperrors.ErrSigningFailed
			default:
				log.Error().Err(err).Msg("Failed to execute query")
				return err
			}
		}

		return util.ValidateAndReturn(c, http.StatusOK, envelopeResponse(env))
	}
}

func envelopeResponse(env *audit.Envelope) *types.EnvelopeResponse {
	entries := make([]*types.AuditLogEntry, 0, len(env.AuditLog))
	for _, e := range env.AuditLog {
		entries = append(entries, &types.AuditLogEntry{
			Ts:               swag.String(e.Timestamp),
			Event:            swag.String(e.Event),
			FoundryRequestID: e.RequestID,
			DatasetURN:       swag.String(e.DatasetURN),
		})
	}

	return &types.EnvelopeResponse{
		Data:           env.Data,
		SignedResponse: swag.String(env.SignedResponse),
		AuditLog:       entries,
	}
}
