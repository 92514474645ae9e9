package api

import (
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/connector"
	"github.com/fedmcp/fmcpx/internal/discovery"
	"github.com/fedmcp/fmcpx/internal/infra/audit"
	"github.com/fedmcp/fmcpx/internal/infra/foundry"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/fedmcp/fmcpx/internal/infra/signing"
	"github.com/fedmcp/fmcpx/internal/metrics"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirements for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NoTest() []*testing.T {
	return nil
}

// NewConsulClient only connects when something needs Consul and returns nil otherwise.
func NewConsulClient(cfg config.Server) (*discovery.ConsulClient, error) {
	if cfg.Signing.KeySource != key.SourceConsul && !cfg.Consul.Register {
		return nil, nil
	}

	return discovery.NewConsulClient(discovery.ConsulConfig{
		Address: cfg.Consul.Address,
		Token:   cfg.Consul.Token,
	})
}

func NewKeySource(cfg config.Server, consul *discovery.ConsulClient) (key.Source, error) {
	var kv key.KVReader
	if consul != nil {
		kv = consul
	}

	return key.SourceFromConfig(cfg.Signing.KeySource, cfg.Signing.KeyEnvVar, cfg.Signing.KeyFile, cfg.Signing.KeyConsulKey, kv)
}

func NewKeyStore(source key.Source, metricsService *metrics.Service) *key.Store {
	return key.NewStore(source, key.WithLoadObserver(metricsService.ObserveKeyLoad))
}

func NewSigner(keys *key.Store, clock time2.Clock) *signing.Signer {
	return signing.NewSigner(keys, clock)
}

func NewVerifier(keys *key.Store) *signing.Verifier {
	return signing.NewVerifier(keys)
}

func NewAuditBuilder(cfg config.Server, signer *signing.Signer) *audit.Builder {
	return audit.NewBuilder(signer, audit.Config{
		EventKind:       cfg.Audit.EventKind,
		DatasetURN:      cfg.Audit.DatasetURN,
		CorrelationPath: cfg.Audit.CorrelationPath,
	})
}

// NewQueryRunner returns the Foundry client. FOUNDRY_* variables are read on
// the first query, not at startup.
func NewQueryRunner() connector.QueryRunner {
	return foundry.NewLazyClient(foundry.ConfigFromEnv)
}

func NewBridge(cfg config.Server, runner connector.QueryRunner, builder *audit.Builder, metricsService *metrics.Service, clock time2.Clock) *connector.Bridge {
	return connector.NewBridge(runner, builder, connector.Config{
		Timeout:       cfg.Connector.Timeout,
		MaxConcurrent: cfg.Connector.MaxConcurrent,
	}, connector.WithObserver(metricsService), connector.WithClock(clock))
}
