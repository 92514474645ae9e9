package test

import (
	"context"
	"crypto/elliptic"
	"sync"
	"testing"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/api/router"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/connector"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// StaticRunner answers every query with Result or Err and records the calls.
type StaticRunner struct {
	Result map[string]any
	Err    error

	mu    sync.Mutex
	calls []string
}

func (r *StaticRunner) RunQuery(_ context.Context, query string, _ map[string]any) (map[string]any, error) {
	r.mu.Lock()
	r.calls = append(r.calls, query)
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return r.Result, nil
}

func (r *StaticRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// EmployeeQueryResult is what Foundry answers to the employee 12345 lookup.
func EmployeeQueryResult() map[string]any {
	return map[string]any{
		"data":       map[string]any{"employee": map[string]any{"id": "12345"}},
		"extensions": map[string]any{"requestId": "req-1"},
	}
}

type ServerOptions struct {
	Config *config.Server
	Source key.Source
	Runner connector.QueryRunner
}

// WithTestServer runs closure against a fully wired server with a fresh P-256
// key and a runner returning EmployeeQueryResult.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()
	WithTestServerConfigurable(t, ServerOptions{}, closure)
}

func WithTestServerConfigurable(t *testing.T, opts ServerOptions, closure func(s *api.Server)) {
	t.Helper()

	s := NewTestServer(t, opts)
	defer func() {
		if errs := s.Shutdown(context.Background()); len(errs) > 0 {
			t.Fatalf("failed to shutdown server: %v", errs)
		}
	}()

	closure(s)
}

func NewTestServer(t *testing.T, opts ServerOptions) *api.Server {
	t.Helper()

	cfg := config.DefaultServiceConfigFromEnv()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	cfg.Logger.Level = zerolog.Disabled
	cfg.Logger.RequestLevel = zerolog.DebugLevel
	cfg.Consul.Register = false

	source := opts.Source
	if source == nil {
		source = key.StaticSource{PEM: GenerateKeyPEM(t, elliptic.P256())}
	}

	runner := opts.Runner
	if runner == nil {
		runner = &StaticRunner{Result: EmployeeQueryResult()}
	}

	s, err := api.InitNewServerWithComponents(cfg, source, runner, t)
	require.NoError(t, err)

	router.Init(s)

	return s
}
