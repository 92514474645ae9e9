package signing

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var segmentEncoding = base64.RawURLEncoding

// KeyProvider hands out the cached signing pair.
type KeyProvider interface {
	Get(ctx context.Context) (*key.KeyPair, error)
}

// Signer produces compact ES256 JWS tokens over canonical payload bytes.
type Signer struct {
	keys  KeyProvider
	clock time2.Clock
}

func NewSigner(keys KeyProvider, clock time2.Clock) *Signer {
	if clock == nil {
		clock = time2.DefaultClock
	}
	return &Signer{keys: keys, clock: clock}
}

// Sign canonicalizes payload and signs it with the private half of the cached
// key. The payload is never modified. Key failures propagate as
// domain.ErrConfiguration, encoding failures as domain.ErrSerialization.
func (s *Signer) Sign(ctx context.Context, payload any) (*Signed, error) {
	kp, err := s.keys.Get(ctx)
	if err != nil {
		return nil, err
	}

	body, err := Canonicalize(payload)
	if err != nil {
		return nil, err
	}

	issuedAt := s.clock.Now().UTC().Truncate(time.Second)
	header, err := Canonicalize(protectedHeader{Alg: key.Algorithm, Iat: Timestamp(issuedAt)})
	if err != nil {
		return nil, err
	}

	signingInput := segmentEncoding.EncodeToString(header) + "." + segmentEncoding.EncodeToString(body)
	sig, err := jwt.SigningMethodES256.Sign(signingInput, kp.Private)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign payload")
	}

	return &Signed{
		Token:    signingInput + "." + segmentEncoding.EncodeToString(sig),
		IssuedAt: issuedAt,
	}, nil
}
