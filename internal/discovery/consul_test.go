package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsulClient_Basic(t *testing.T) {
	t.Skip("Skipping Consul tests - requires running Consul server")

	client, err := NewConsulClient(ConsulConfig{Address: "localhost:8500"})
	require.NoError(t, err)

	ctx := context.Background()
	err = client.Register(ctx, &ServiceInfo{
		ID:      "fmcpx-test-1",
		Name:    "fmcpx",
		Address: "localhost",
		Port:    8080,
		Check:   &HealthCheck{Path: "/health/ready", Interval: 10 * time.Second, Timeout: time.Second},
	})
	require.NoError(t, err)

	_, err = client.GetSecret(ctx, "fmcpx/does-not-exist")
	assert.Error(t, err)

	require.NoError(t, client.Deregister(ctx, "fmcpx-test-1"))
}

func TestBuildRegistration(t *testing.T) {
	service := &ServiceInfo{
		ID:      "fmcpx-1",
		Address: "10.0.0.7",
		Port:    8080,
		Tags:    []string{"signing"},
		Meta:    map[string]string{"version": "1.2.3"},
		Check: &HealthCheck{
			Path:                           "/health/ready",
			Interval:                       10 * time.Second,
			Timeout:                        2 * time.Second,
			DeregisterCriticalServiceAfter: time.Minute,
		},
	}

	reg, err := buildRegistration(service)
	require.NoError(t, err)

	assert.Equal(t, "fmcpx-1", reg.ID)
	assert.Equal(t, "fmcpx", reg.Name)
	assert.Equal(t, []string{"signing"}, reg.Tags)
	assert.Equal(t, "1.2.3", reg.Meta["version"])
	require.NotNil(t, reg.Check)
	assert.Equal(t, "http://10.0.0.7:8080/health/ready", reg.Check.HTTP)
	assert.Equal(t, "10s", reg.Check.Interval)
	assert.Equal(t, "2s", reg.Check.Timeout)
	assert.Equal(t, "1m0s", reg.Check.DeregisterCriticalServiceAfter)
}

func TestBuildRegistrationDefaults(t *testing.T) {
	reg, err := buildRegistration(&ServiceInfo{ID: "x", Port: 9000, Check: &HealthCheck{Path: "/health/live"}})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/health/live", reg.Check.HTTP)
	assert.Empty(t, reg.Check.DeregisterCriticalServiceAfter)

	_, err = buildRegistration(&ServiceInfo{})
	assert.Error(t, err)

	_, err = buildRegistration(nil)
	assert.Error(t, err)
}
