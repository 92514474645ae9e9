package health

import (
	"net/http"
	"time"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/labstack/echo/v4"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
)

// GetDetailedRoute reports the state of each component without triggering
// any loads or upstream calls.
func GetDetailedRoute(s *api.Server) *echo.Route {
	return s.Router.Health.GET("/detailed", getDetailedHandler(s))
}

func getDetailedHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := s.Clock.Now()

		signingKey := map[string]interface{}{
			"status": "not_loaded",
			"source": s.Config.Signing.KeySource,
		}
		if s.Keys.Loaded() {
			if kp, err := s.Keys.Get(c.Request().Context()); err == nil {
				signingKey["status"] = "loaded"
				signingKey["kid"] = kp.KeyID()
			}
		}

		consul := map[string]interface{}{"status": "disabled"}
		if s.Consul != nil {
			consul["status"] = "configured"
			consul["register"] = s.Config.Consul.Register
		}

		status := statusOK
		if !s.Keys.Loaded() {
			status = statusDegraded
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    status,
			"timestamp": now.UTC().Format(time.RFC3339),
			"uptime":    now.Sub(s.StartedAt).String(),
			"version":   config.Version(),
			"components": map[string]interface{}{
				"signing_key": signingKey,
				"connector": map[string]interface{}{
					"timeout":        s.Config.Connector.Timeout.String(),
					"max_concurrent": s.Config.Connector.MaxConcurrent,
				},
				"service_discovery": consul,
			},
		})
	}
}
