package key

import (
	"context"
	"os"
	"strings"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/pkg/errors"
)

// DefaultKeyEnvVar holds the PEM-encoded ES256 private key for the env source.
const DefaultKeyEnvVar = "FMCPEX_JWS_PRIV_KEY"

// Source kinds accepted by SourceFromConfig.
const (
	SourceEnv    = "env"
	SourceFile   = "file"
	SourceConsul = "consul"
)

// Source yields the raw PEM bytes of the signing key. Read is called lazily by
// Store and at most once per successful load.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// KVReader reads a secret value from a key/value secret store.
type KVReader interface {
	GetSecret(ctx context.Context, key string) ([]byte, error)
}

// EnvSource reads the key from an environment variable at load time.
type EnvSource struct {
	Var string
}

func (s EnvSource) Name() string {
	return "env:" + s.envVar()
}

func (s EnvSource) Read(_ context.Context) ([]byte, error) {
	v, ok := os.LookupEnv(s.envVar())
	if !ok || strings.TrimSpace(v) == "" {
		return nil, errors.Wrapf(domain.ErrConfiguration,
			"JWS signing requires the %s environment variable to contain a PEM-encoded ES256 private key", s.envVar())
	}
	// single-line env files often carry escaped newlines
	if !strings.Contains(v, "\n") && strings.Contains(v, `\n`) {
		v = strings.ReplaceAll(v, `\n`, "\n")
	}
	return []byte(v), nil
}

func (s EnvSource) envVar() string {
	if s.Var == "" {
		return DefaultKeyEnvVar
	}
	return s.Var
}

// FileSource reads the key from a PEM file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string {
	return "file:" + s.Path
}

func (s FileSource) Read(_ context.Context) ([]byte, error) {
	if s.Path == "" {
		return nil, errors.Wrap(domain.ErrConfiguration, "signing key file path is empty")
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrConfiguration, "failed to read signing key file: %v", err)
	}
	return raw, nil
}

// ConsulSource reads the key from a consul KV entry.
type ConsulSource struct {
	KV  KVReader
	Key string
}

func (s ConsulSource) Name() string {
	return "consul:" + s.Key
}

func (s ConsulSource) Read(ctx context.Context) ([]byte, error) {
	if s.KV == nil || s.Key == "" {
		return nil, errors.Wrap(domain.ErrConfiguration, "consul signing key source is not configured")
	}
	raw, err := s.KV.GetSecret(ctx, s.Key)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrConfiguration, "failed to read signing key from consul: %v", err)
	}
	if len(raw) == 0 {
		return nil, errors.Wrapf(domain.ErrConfiguration, "consul key %q holds no signing key", s.Key)
	}
	return raw, nil
}

// StaticSource serves a PEM already held in memory.
type StaticSource struct {
	PEM []byte
}

func (s StaticSource) Name() string {
	return "static"
}

func (s StaticSource) Read(_ context.Context) ([]byte, error) {
	if len(s.PEM) == 0 {
		return nil, errors.Wrap(domain.ErrConfiguration, "static signing key is empty")
	}
	return s.PEM, nil
}

// SourceFromConfig picks a Source by kind. kv is only needed for SourceConsul.
func SourceFromConfig(kind, envVar, file, consulKey string, kv KVReader) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", SourceEnv:
		return EnvSource{Var: envVar}, nil
	case SourceFile:
		return FileSource{Path: file}, nil
	case SourceConsul:
		if kv == nil {
			return nil, errors.Wrap(domain.ErrConfiguration, "consul key source requires a consul client")
		}
		return ConsulSource{KV: kv, Key: consulKey}, nil
	default:
		return nil, errors.Wrapf(domain.ErrConfiguration, "unknown signing key source %q", kind)
	}
}
