//go:build wireinject

//go:generate wire

package api

import (
	"testing"

	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/fedmcp/fmcpx/internal/connector"
	"github.com/fedmcp/fmcpx/internal/hr"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/fedmcp/fmcpx/internal/metrics"
	"github.com/google/wire"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	metrics.New,
	NewClock,
	NewKeyStore,
	NewSigner,
	NewVerifier,
	NewAuditBuilder,
	NewBridge,
	hr.NewDemoDirectory,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewConsulClient, NewKeySource, NewQueryRunner, NoTest)
	return new(Server), nil
}

// InitNewServerWithComponents returns a new Server instance with the given key
// source and query runner. All the other components are initialized via go wire
// according to the configuration.
func InitNewServerWithComponents(
	_ config.Server,
	_ key.Source,
	_ connector.QueryRunner,
	t ...*testing.T,
) (*Server, error) {
	wire.Build(serviceSet, NewConsulClient)
	return new(Server), nil
}
