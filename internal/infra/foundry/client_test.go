package foundry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/fedmcp/fmcpx/internal/infra/foundry"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, url string) *foundry.Client {
	t.Helper()
	client, err := foundry.NewClient(foundry.Config{Endpoint: url, Token: "pat-123", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestRunQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer pat-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, `{ employee(id: "12345") }`, body["query"])
		assert.Equal(t, map[string]any{}, body["variables"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"employee":{"id":"12345"}},"extensions":{"requestId":"req-1"}}`))
	}))
	defer srv.Close()

	result, err := newClient(t, srv.URL).RunQuery(context.Background(), `{ employee(id: "12345") }`, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"data":       map[string]any{"employee": map[string]any{"id": "12345"}},
		"extensions": map[string]any{"requestId": "req-1"},
	}, result)
}

func TestRunQueryKeepsNumberLiterals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":9007199254740993,"score":1.5}}`))
	}))
	defer srv.Close()

	result, err := newClient(t, srv.URL).RunQuery(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":    json.Number("9007199254740993"),
		"score": json.Number("1.5"),
	}, result["data"])
}

func TestRunQueryPassesVariables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"id": "98765"}, body["variables"])
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).RunQuery(context.Background(), "q", map[string]any{"id": "98765"})
	require.NoError(t, err)
}

func TestRunQueryUpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"unauthorized", http.StatusUnauthorized, `denied`},
		{"not json", http.StatusOK, `<html>`},
		{"json array", http.StatusOK, `[1,2]`},
		{"json null", http.StatusOK, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			result, err := newClient(t, srv.URL).RunQuery(context.Background(), "q", nil)
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrUpstream))

			var upstreamErr *domain.UpstreamError
			require.True(t, errors.As(err, &upstreamErr))
			assert.Equal(t, tt.status, upstreamErr.StatusCode)
		})
	}
}

func TestRunQueryConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).RunQuery(context.Background(), "q", nil)
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Zero(t, upstreamErr.StatusCode)
	assert.NotNil(t, upstreamErr.Cause)
}

func TestRunQueryHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, srv.URL).RunQuery(ctx, "q", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConfigFromMap(t *testing.T) {
	cfg, err := foundry.ConfigFromMap(map[string]string{"FOUNDRY_PAT": "abc"})
	require.NoError(t, err)
	assert.Equal(t, foundry.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "abc", cfg.Token)

	cfg, err = foundry.ConfigFromMap(map[string]string{
		"FOUNDRY_PAT":     "abc",
		"FOUNDRY_GQL":     "http://localhost:9999/graphql",
		"FOUNDRY_TIMEOUT": "5s",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/graphql", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	_, err = foundry.ConfigFromMap(map[string]string{"FOUNDRY_TIMEOUT": "soon"})
	assert.Error(t, err)
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := foundry.NewClient(foundry.Config{Endpoint: foundry.DefaultEndpoint, Timeout: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOUNDRY_PAT")

	_, err = foundry.NewClient(foundry.Config{Endpoint: "not a url", Token: "x", Timeout: time.Second})
	assert.Error(t, err)

	t.Setenv("FOUNDRY_PAT", "")
	_, err = foundry.NewClientFromEnv()
	assert.Error(t, err)

	t.Setenv("FOUNDRY_PAT", "from-env")
	client, err := foundry.NewClientFromEnv()
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestLazyClientDefersConstruction(t *testing.T) {
	loads := 0
	lazy := foundry.NewLazyClient(func() (foundry.Config, error) {
		loads++
		return foundry.Config{Endpoint: foundry.DefaultEndpoint, Timeout: time.Second}, nil
	})
	assert.Zero(t, loads)

	_, err := lazy.RunQuery(context.Background(), "q", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Contains(t, err.Error(), "FOUNDRY_PAT")

	_, _ = lazy.RunQuery(context.Background(), "q", nil)
	assert.Equal(t, 1, loads)
}

func TestLazyClientQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	lazy := foundry.NewLazyClient(func() (foundry.Config, error) {
		return foundry.Config{Endpoint: srv.URL, Token: "t", Timeout: time.Second}, nil
	})

	result, err := lazy.RunQuery(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": map[string]any{"ok": true}}, result)
}
