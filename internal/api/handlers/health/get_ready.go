package health

import (
	"context"
	"net/http"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/api/httperrors"
	"github.com/fedmcp/fmcpx/internal/util"
	"github.com/labstack/echo/v4"
)

// GetReadyRoute reports ready once the signing key can be loaded. The first
// probe performs the load.
func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Health.GET("/ready", getReadyHandler(s))
}

func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if s.Config.Management.ProbeReadinessTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.Config.Management.ProbeReadinessTimeout)
			defer cancel()
		}

		if !s.Ready() {
			return httperrors.ErrSigningKeyMissing
		}

		if _, err := s.Keys.Get(ctx); err != nil {
			util.LogFromContext(ctx).Warn().Err(err).Msg("Readiness probe failed, signing key unavailable")
			return httperrors.ErrSigningKeyMissing
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
