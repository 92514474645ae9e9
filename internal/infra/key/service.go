package key

import (
	"context"
	"crypto/elliptic"
	"sync"
	"sync/atomic"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoadObserver is told about every attempt to load the key from its source.
type LoadObserver func(source string, err error)

// Store lazily loads the signing KeyPair from a Source and caches it for the
// life of the process. Get is safe for concurrent use; concurrent first calls
// result in a single read and parse.
type Store struct {
	source   Source
	observer LoadObserver

	mu   sync.Mutex
	pair atomic.Pointer[KeyPair]
}

// StoreOption customizes a Store built by NewStore.
type StoreOption func(*Store)

// WithLoadObserver reports every key load attempt, successful or not, to o.
func WithLoadObserver(o LoadObserver) StoreOption {
	return func(s *Store) {
		s.observer = o
	}
}

// NewStore creates a Store reading from source. Nothing is read until Get.
func NewStore(source Source, opts ...StoreOption) *Store {
	s := &Store{source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached KeyPair, loading it on first use. Load failures wrap
// domain.ErrConfiguration, except a read cut short by ctx, and are not cached.
func (s *Store) Get(ctx context.Context) (*KeyPair, error) {
	if kp := s.pair.Load(); kp != nil {
		return kp, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if kp := s.pair.Load(); kp != nil {
		return kp, nil
	}

	kp, err := s.load(ctx)
	if s.observer != nil {
		s.observer(s.sourceName(), err)
	}
	if err != nil {
		log.Error().Err(err).Str("key_source", s.sourceName()).Msg("Failed to load signing key")
		return nil, err
	}

	s.pair.Store(kp)
	log.Info().Str("key_source", s.sourceName()).Str("kid", kp.KeyID()).Msg("Signing key loaded")
	return kp, nil
}

// Loaded reports whether a KeyPair is cached. It never triggers a load.
func (s *Store) Loaded() bool {
	return s.pair.Load() != nil
}

func (s *Store) load(ctx context.Context) (*KeyPair, error) {
	if s.source == nil {
		return nil, errors.Wrap(domain.ErrConfiguration, "no signing key source configured")
	}

	raw, err := s.source.Read(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return nil, err
		}
		// An abandoned read says nothing about the key itself.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(err, "read signing key")
		}
		return nil, errors.Wrapf(domain.ErrConfiguration, "read signing key: %v", err)
	}

	return ParsePrivateKeyPEM(raw)
}

func (s *Store) sourceName() string {
	if s.source == nil {
		return "none"
	}
	return s.source.Name()
}

// ParsePrivateKeyPEM parses a SEC1 or PKCS#8 PEM private key and requires P-256.
func ParsePrivateKeyPEM(raw []byte) (*KeyPair, error) {
	priv, err := jwt.ParseECPrivateKeyFromPEM(raw)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrConfiguration, "signing key is not a PEM-encoded EC private key: %v", err)
	}
	if priv.Curve != elliptic.P256() {
		return nil, errors.Wrapf(domain.ErrConfiguration, "signing key must be on %s, got %s", Curve, priv.Curve.Params().Name)
	}

	kp, err := newKeyPair(priv)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrConfiguration, "derive public key: %v", err)
	}
	return kp, nil
}
