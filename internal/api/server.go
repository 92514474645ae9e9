package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/connector"
	"github.com/fedmcp/fmcpx/internal/discovery"
	"github.com/fedmcp/fmcpx/internal/hr"
	"github.com/fedmcp/fmcpx/internal/infra/audit"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/fedmcp/fmcpx/internal/infra/signing"
	"github.com/fedmcp/fmcpx/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	APIV1      *echo.Group
	Health     *echo.Group
	Management *echo.Group
}

// Server is a fully wired fmcpx instance. Everything but Echo and Router is
// provided by InitNewServer.
type Server struct {
	Config    config.Server
	Echo      *echo.Echo
	Router    *Router
	Clock     time2.Clock
	Keys      *key.Store
	Signer    *signing.Signer
	Verifier  *signing.Verifier
	Builder   *audit.Builder
	Bridge    *connector.Bridge
	Metrics   *metrics.Service
	Employees *hr.Directory
	// Consul is nil unless the key lives in Consul or registration is enabled.
	Consul    *discovery.ConsulClient
	StartedAt time.Time
}

func newServerWithComponents(
	cfg config.Server,
	clock time2.Clock,
	keys *key.Store,
	signer *signing.Signer,
	verifier *signing.Verifier,
	builder *audit.Builder,
	bridge *connector.Bridge,
	metricsService *metrics.Service,
	employees *hr.Directory,
	consul *discovery.ConsulClient,
) *Server {
	return &Server{
		Config:    cfg,
		Clock:     clock,
		Keys:      keys,
		Signer:    signer,
		Verifier:  verifier,
		Builder:   builder,
		Bridge:    bridge,
		Metrics:   metricsService,
		Employees: employees,
		Consul:    consul,
		StartedAt: clock.Now(),
	}
}

func (s *Server) Ready() bool {
	return s.Echo != nil && s.Router != nil && s.Keys != nil && s.Bridge != nil
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.registerService(context.Background()); err != nil {
		return err
	}

	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Consul != nil && s.Config.Consul.Register {
		if err := s.Consul.Deregister(ctx, s.serviceID()); err != nil {
			log.Error().Err(err).Msg("Failed to deregister service")
			errs = append(errs, err)
		}
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")
		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}

func (s *Server) registerService(ctx context.Context) error {
	if s.Consul == nil || !s.Config.Consul.Register {
		return nil
	}

	return s.Consul.Register(ctx, &discovery.ServiceInfo{
		ID:      s.serviceID(),
		Name:    s.Config.Consul.ServiceName,
		Address: s.Config.Consul.AdvertiseAddress,
		Port:    s.Config.Consul.AdvertisePort,
		Tags:    []string{"signing", "audit"},
		Check: &discovery.HealthCheck{
			Path:     "/health/ready",
			Interval: 10 * s.Config.Management.ProbeReadinessTimeout,
			Timeout:  s.Config.Management.ProbeReadinessTimeout,
		},
	})
}

func (s *Server) serviceID() string {
	if s.Config.Consul.ServiceID != "" {
		return s.Config.Consul.ServiceID
	}
	return s.Config.Consul.ServiceName + "-" + s.Config.Echo.ListenAddress
}
