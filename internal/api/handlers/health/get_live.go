package health

import (
	"net/http"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/labstack/echo/v4"
)

// GetLiveRoute answers as long as the process serves HTTP.
func GetLiveRoute(s *api.Server) *echo.Route {
	return s.Router.Health.GET("/live", getLiveHandler(s))
}

func getLiveHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "Alive.")
	}
}
