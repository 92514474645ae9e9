package signing

import (
	"time"
)

// Signed is the result of signing one payload.
type Signed struct {
	// Token is the compact JWS: b64url(header).b64url(payload).b64url(signature)
	Token string
	// IssuedAt is the UTC, second-precision time stamped into the header.
	IssuedAt time.Time
}

// protectedHeader is the JWS protected header. Field order does not matter,
// the header is canonicalized before encoding.
type protectedHeader struct {
	Alg string `json:"alg"`
	Iat string `json:"iat"`
}

// Timestamp formats t the way iat and audit timestamps are written.
func Timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
