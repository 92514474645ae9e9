package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fedmcp/fmcpx/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServiceConfigFromEnv(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, ":8080", cfg.Echo.ListenAddress)
	assert.Equal(t, "env", cfg.Signing.KeySource)
	assert.Equal(t, "FMCPEX_JWS_PRIV_KEY", cfg.Signing.KeyEnvVar)
	assert.Equal(t, "foundry_query", cfg.Audit.EventKind)
	assert.Equal(t, "urn:palantir:foundry:dataset:unspecified", cfg.Audit.DatasetURN)
	assert.Equal(t, []string{"extensions", "requestId"}, cfg.Audit.CorrelationPath)
	assert.Equal(t, 30*time.Second, cfg.Connector.Timeout)
	assert.Equal(t, int64(16), cfg.Connector.MaxConcurrent)
	assert.False(t, cfg.Consul.Register)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Echo.HideInternalServerErrorDetails)
	assert.False(t, cfg.Logger.LogRequestBody)
}

func TestServiceConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ECHO_LISTEN_ADDRESS", ":9090")
	t.Setenv("LOGGER_LEVEL", "debug")
	t.Setenv("LOGGER_PRETTY_PRINT_CONSOLE", "true")
	t.Setenv("SIGNING_KEY_SOURCE", "file")
	t.Setenv("SIGNING_KEY_FILE", "/run/secrets/jws.pem")
	t.Setenv("AUDIT_DATASET_URN", "urn:example:dataset:hr")
	t.Setenv("AUDIT_CORRELATION_PATH", "meta. trace ")
	t.Setenv("CONNECTOR_TIMEOUT", "5s")
	t.Setenv("CONNECTOR_MAX_CONCURRENT", "4")
	t.Setenv("CONSUL_REGISTER", "true")
	t.Setenv("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", "false")
	t.Setenv("LOGGER_LOG_REQUEST_BODY", "true")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, ":9090", cfg.Echo.ListenAddress)
	assert.Equal(t, zerolog.DebugLevel, cfg.Logger.Level)
	assert.True(t, cfg.Logger.PrettyPrintConsole)
	assert.Equal(t, "file", cfg.Signing.KeySource)
	assert.Equal(t, "/run/secrets/jws.pem", cfg.Signing.KeyFile)
	assert.Equal(t, "urn:example:dataset:hr", cfg.Audit.DatasetURN)
	assert.Equal(t, []string{"meta", "trace"}, cfg.Audit.CorrelationPath)
	assert.Equal(t, 5*time.Second, cfg.Connector.Timeout)
	assert.Equal(t, int64(4), cfg.Connector.MaxConcurrent)
	assert.True(t, cfg.Consul.Register)
	assert.False(t, cfg.Echo.HideInternalServerErrorDetails)
	assert.True(t, cfg.Logger.LogRequestBody)
}

func TestInvalidLogLevelFallsBack(t *testing.T) {
	t.Setenv("LOGGER_LEVEL", "loud")

	cfg := config.DefaultServiceConfigFromEnv()
	assert.Equal(t, zerolog.InfoLevel, cfg.Logger.Level)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AUDIT_EVENT_KIND=hr_lookup\n"), 0o600))

	t.Setenv("AUDIT_EVENT_KIND", "")
	require.NoError(t, os.Unsetenv("AUDIT_EVENT_KIND"))

	require.NoError(t, config.LoadEnvFile(path))
	assert.Equal(t, "hr_lookup", config.DefaultServiceConfigFromEnv().Audit.EventKind)

	assert.Error(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
