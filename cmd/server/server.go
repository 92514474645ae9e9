package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/api/router"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const probeFlag = "probe"

type Flags struct {
	Probe bool
}

func New() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP server",
		Long: `Starts the HTTP server serving /api/v1/query, /api/v1/verify,
the demo /employee connector, health probes and metrics.`,
		Run: func(_ *cobra.Command, _ []string) {
			runServer(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Probe, probeFlag, false, "Load the signing key before accepting requests and fail fast if it is missing")

	return cmd
}

func runServer(flags Flags) {
	cfg := config.DefaultServiceConfigFromEnv()
	command.SetupLogger(cfg)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if flags.Probe {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Management.ProbeReadinessTimeout)
		_, err := s.Keys.Get(ctx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Signing key is not available")
		}
	}

	router.Init(s)

	go func() {
		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	log.Info().Str("address", cfg.Echo.ListenAddress).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	timeout := cfg.Echo.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Fatal().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
	}

	log.Info().Msg("Server shutdown complete")
}
