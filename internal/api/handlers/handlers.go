package handlers

import (
	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/api/handlers/connector"
	"github.com/fedmcp/fmcpx/internal/api/handlers/employee"
	"github.com/fedmcp/fmcpx/internal/api/handlers/health"
	"github.com/fedmcp/fmcpx/internal/api/handlers/metrics"
	"github.com/labstack/echo/v4"
)

func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		connector.PostQueryRoute(s),
		connector.PostVerifyRoute(s),
		employee.PostEmployeeRoute(s),
		health.GetLiveRoute(s),
		health.GetReadyRoute(s),
		health.GetDetailedRoute(s),
	}

	if s.Config.Metrics.Enabled {
		s.Router.Routes = append(s.Router.Routes, metrics.GetMetricsRoute(s))
	}
}
