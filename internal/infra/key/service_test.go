package key_test

import (
	"context"
	"crypto/elliptic"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/fedmcp/fmcpx/internal/test"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	key.Source
	reads   atomic.Int32
	release chan struct{}
}

func (s *countingSource) Read(ctx context.Context) ([]byte, error) {
	s.reads.Add(1)
	if s.release != nil {
		<-s.release
	}
	return s.Source.Read(ctx)
}

func TestStoreConcurrentFirstCallsLoadOnce(t *testing.T) {
	src := &countingSource{
		Source:  key.StaticSource{PEM: test.GenerateKeyPEM(t, elliptic.P256())},
		release: make(chan struct{}),
	}
	store := key.NewStore(src)

	const callers = 32
	results := make([]*key.KeyPair, callers)
	errs := make([]error, callers)

	var started, wg sync.WaitGroup
	started.Add(callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			started.Done()
			results[i], errs[i] = store.Get(context.Background())
		}(i)
	}
	started.Wait()
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.reads.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
		assert.Equal(t, results[0].PublicKeyDER(), results[i].PublicKeyDER())
	}
	assert.True(t, store.Loaded())
}

func TestStoreCachesAfterFirstLoad(t *testing.T) {
	src := &countingSource{Source: key.StaticSource{PEM: test.GeneratePKCS8KeyPEM(t)}}
	var observed []string
	store := key.NewStore(src, key.WithLoadObserver(func(source string, err error) {
		assert.NoError(t, err)
		observed = append(observed, source)
	}))

	assert.False(t, store.Loaded())

	first, err := store.Get(context.Background())
	require.NoError(t, err)
	second, err := store.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.reads.Load())
	assert.Equal(t, []string{"static"}, observed)
	assert.Equal(t, elliptic.P256(), first.Public.Curve)
	assert.Equal(t, first.Private.PublicKey, *first.Public)
}

func TestStoreMissingEnvKeyIsConfigurationError(t *testing.T) {
	t.Setenv("FMCPX_TEST_MISSING_KEY", "")

	store := key.NewStore(key.EnvSource{Var: "FMCPX_TEST_MISSING_KEY"})
	_, err := store.Get(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.Contains(t, err.Error(), "FMCPX_TEST_MISSING_KEY")
	assert.False(t, store.Loaded())
}

func TestStoreFailureIsNotCached(t *testing.T) {
	t.Setenv("FMCPX_TEST_LATE_KEY", "")
	store := key.NewStore(key.EnvSource{Var: "FMCPX_TEST_LATE_KEY"})

	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, domain.ErrConfiguration)

	t.Setenv("FMCPX_TEST_LATE_KEY", string(test.GenerateKeyPEM(t, elliptic.P256())))
	kp, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, kp.KeyID())
}

type contextSource struct {
	pem []byte
}

func (s contextSource) Name() string {
	return "context"
}

func (s contextSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "kv read")
	}
	return s.pem, nil
}

func TestStoreCancelledReadIsNotConfigurationError(t *testing.T) {
	store := key.NewStore(contextSource{pem: test.GenerateKeyPEM(t, elliptic.P256())})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Get(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrConfiguration))
	assert.False(t, store.Loaded())

	kp, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, kp.KeyID())
}

func TestStoreRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		pem  []byte
	}{
		{"garbage", []byte("not a key")},
		{"wrong curve", test.GenerateKeyPEM(t, elliptic.P384())},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := key.NewStore(key.StaticSource{PEM: tt.pem})
			_, err := store.Get(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
		})
	}
}

func TestStoreWithoutSource(t *testing.T) {
	_, err := key.NewStore(nil).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestEnvSourceUnescapesNewlines(t *testing.T) {
	pemBytes := test.GenerateKeyPEM(t, elliptic.P256())
	escaped := ""
	for _, b := range string(pemBytes) {
		if b == '\n' {
			escaped += `\n`
			continue
		}
		escaped += string(b)
	}
	t.Setenv(key.DefaultKeyEnvVar, escaped)

	kp, err := key.NewStore(key.EnvSource{}).Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, kp.Private)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(path, test.GenerateKeyPEM(t, elliptic.P256()), 0o600))

	kp, err := key.NewStore(key.FileSource{Path: path}).Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, kp.Public)

	_, err = key.NewStore(key.FileSource{Path: filepath.Join(t.TempDir(), "missing.pem")}).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

type fakeKV map[string][]byte

func (f fakeKV) GetSecret(_ context.Context, k string) ([]byte, error) {
	v, ok := f[k]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return v, nil
}

func TestConsulSource(t *testing.T) {
	kv := fakeKV{"fmcpx/signing-key": test.GenerateKeyPEM(t, elliptic.P256()), "fmcpx/empty": nil}

	kp, err := key.NewStore(key.ConsulSource{KV: kv, Key: "fmcpx/signing-key"}).Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, kp.Private)

	_, err = key.NewStore(key.ConsulSource{KV: kv, Key: "fmcpx/empty"}).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = key.NewStore(key.ConsulSource{KV: kv, Key: "fmcpx/other"}).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSourceFromConfig(t *testing.T) {
	src, err := key.SourceFromConfig("", "", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "env:FMCPEX_JWS_PRIV_KEY", src.Name())

	src, err = key.SourceFromConfig("file", "", "/run/secrets/jws.pem", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "file:/run/secrets/jws.pem", src.Name())

	_, err = key.SourceFromConfig("consul", "", "", "fmcpx/signing-key", nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	src, err = key.SourceFromConfig("CONSUL", "", "", "fmcpx/signing-key", fakeKV{})
	require.NoError(t, err)
	assert.Equal(t, "consul:fmcpx/signing-key", src.Name())

	_, err = key.SourceFromConfig("vault", "", "", "", nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestKeyPairStringHidesKeyMaterial(t *testing.T) {
	kp, err := key.ParsePrivateKeyPEM(test.GenerateKeyPEM(t, elliptic.P256()))
	require.NoError(t, err)

	assert.Equal(t, "KeyPair(ES256, P-256, kid="+kp.KeyID()+")", kp.String())
	assert.Equal(t, kp.String(), kp.GoString())
}
