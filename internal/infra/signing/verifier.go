package signing

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fedmcp/fmcpx/internal/domain"
	"github.com/fedmcp/fmcpx/internal/infra/key"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var strictSegmentEncoding = segmentEncoding.Strict()

// Verifier checks compact JWS tokens produced by Signer against the cached
// public key.
type Verifier struct {
	keys    KeyProvider
	methods map[string]bool
}

func NewVerifier(keys KeyProvider) *Verifier {
	return &Verifier{
		keys:    keys,
		methods: map[string]bool{key.Algorithm: true},
	}
}

// Verify returns the decoded payload of token. Every verification failure,
// whatever its cause, is reported as exactly domain.ErrSignatureInvalid.
func (v *Verifier) Verify(ctx context.Context, token string) (any, error) {
	raw, err := v.VerifyPayload(ctx, token)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, v.reject("payload is not JSON", err)
	}
	return payload, nil
}

// VerifyPayload is Verify without decoding: it returns the exact signed bytes.
func (v *Verifier) VerifyPayload(ctx context.Context, token string) ([]byte, error) {
	kp, err := v.keys.Get(ctx)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return nil, v.reject("token does not have three segments", nil)
	}

	headerRaw, err := strictSegmentEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, v.reject("header segment is not base64url", err)
	}
	var header protectedHeader
	if err := json.Unmarshal(headerRaw, &header); err != nil {
		return nil, v.reject("header is not JSON", err)
	}
	if !v.methods[header.Alg] {
		return nil, v.reject("algorithm not allowed: "+header.Alg, nil)
	}
	method := jwt.GetSigningMethod(header.Alg)
	if method == nil {
		return nil, v.reject("algorithm unknown: "+header.Alg, nil)
	}
	if _, err := time.Parse(time.RFC3339, header.Iat); err != nil {
		return nil, v.reject("iat missing or malformed", err)
	}

	sig, err := strictSegmentEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, v.reject("signature segment is not base64url", err)
	}
	if err := method.Verify(parts[0]+"."+parts[1], sig, kp.Public); err != nil {
		return nil, v.reject("signature mismatch", err)
	}

	payload, err := strictSegmentEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, v.reject("payload segment is not base64url", err)
	}
	return payload, nil
}

// reject logs the reason for operators and hands callers the opaque error.
func (v *Verifier) reject(reason string, cause error) error {
	log.Debug().Err(cause).Str("reason", reason).Msg("Signature verification failed")
	return domain.ErrSignatureInvalid
}

// IsInvalid reports whether err is a verification failure.
func IsInvalid(err error) bool {
	return errors.Is(err, domain.ErrSignatureInvalid)
}
