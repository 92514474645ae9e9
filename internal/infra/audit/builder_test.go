package audit_test

import (
	"context"
	"crypto/elliptic"
	"encoding/json"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/fedmcp/fmcpx/internal/infra/audit"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/fedmcp/fmcpx/internal/infra/signing"
	"github.com/fedmcp/fmcpx/internal/test"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T, config audit.Config) (*audit.Builder, *signing.Verifier) {
	t.Helper()
	store := key.NewStore(key.StaticSource{PEM: test.GenerateKeyPEM(t, elliptic.P256())})
	clock := time2.NewMockClock(time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC))
	return audit.NewBuilder(signing.NewSigner(store, clock), config), signing.NewVerifier(store)
}

func TestBuildEmployeeQueryEnvelope(t *testing.T) {
	builder, verifier := newBuilder(t, audit.Config{})

	result := map[string]any{
		"data":       map[string]any{"employee": map[string]any{"id": "12345"}},
		"extensions": map[string]any{"requestId": "req-1"},
	}

	env, err := builder.Build(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, result, env.Data)
	require.Len(t, env.AuditLog, 1)
	entry := env.AuditLog[0]
	assert.Equal(t, "foundry_query", entry.Event)
	require.NotNil(t, entry.RequestID)
	assert.Equal(t, "req-1", *entry.RequestID)
	assert.Equal(t, audit.DefaultDatasetURN, entry.DatasetURN)
	assert.Equal(t, "2024-01-02T03:04:05Z", entry.Timestamp)

	got, err := verifier.Verify(context.Background(), env.SignedResponse)
	require.NoError(t, err)
	assert.Equal(t, any(result), got)
}

func TestBuildWithoutRequestIDEncodesNull(t *testing.T) {
	builder, _ := newBuilder(t, audit.Config{})

	for _, result := range []map[string]any{
		{"data": map[string]any{}},
		{"extensions": "not-a-map"},
		{"extensions": map[string]any{"requestId": 17.0}},
		{"extensions": map[string]any{"other": "x"}},
	} {
		env, err := builder.Build(context.Background(), result)
		require.NoError(t, err)
		assert.Nil(t, env.AuditLog[0].RequestID)

		raw, err := json.Marshal(env)
		require.NoError(t, err)

		var decoded struct {
			AuditLog []map[string]any `json:"audit_log"`
		}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		v, present := decoded.AuditLog[0]["foundry_request_id"]
		assert.True(t, present)
		assert.Nil(t, v)
	}
}

func TestBuildEnvelopeJSONShape(t *testing.T) {
	builder, _ := newBuilder(t, audit.Config{})

	env, err := builder.Build(context.Background(), map[string]any{"extensions": map[string]any{"requestId": "abc"}})
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.ElementsMatch(t, []string{"data", "signed_response", "audit_log"}, keys(decoded))

	entry := decoded["audit_log"].([]any)[0].(map[string]any)
	assert.ElementsMatch(t, []string{"ts", "event", "foundry_request_id", "dataset_urn"}, keys(entry))
}

func TestBuildHonoursConfig(t *testing.T) {
	builder, _ := newBuilder(t, audit.Config{
		EventKind:       "hr_lookup",
		DatasetURN:      "urn:example:dataset:hr",
		CorrelationPath: []string{"meta", "trace"},
	})

	env, err := builder.Build(context.Background(), map[string]any{"meta": map[string]any{"trace": "t-9"}})
	require.NoError(t, err)

	entry := env.AuditLog[0]
	assert.Equal(t, "hr_lookup", entry.Event)
	assert.Equal(t, "urn:example:dataset:hr", entry.DatasetURN)
	require.NotNil(t, entry.RequestID)
	assert.Equal(t, "t-9", *entry.RequestID)
}

func TestBuildPropagatesSigningErrors(t *testing.T) {
	t.Setenv("FMCPX_AUDIT_TEST_KEY", "")
	store := key.NewStore(key.EnvSource{Var: "FMCPX_AUDIT_TEST_KEY"})
	builder := audit.NewBuilder(signing.NewSigner(store, nil), audit.Config{})

	env, err := builder.Build(context.Background(), map[string]any{"a": "b"})
	assert.Nil(t, env)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	builder, _ = newBuilder(t, audit.Config{})
	env, err = builder.Build(context.Background(), map[string]any{"c": make(chan int)})
	assert.Nil(t, env)
	assert.True(t, errors.Is(err, domain.ErrSerialization))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
