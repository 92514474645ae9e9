package key

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
)

const (
	// Algorithm is the only JWS algorithm a KeyPair is used with.
	Algorithm = "ES256"
	// Curve names the elliptic curve every KeyPair lives on.
	Curve = "P-256"
)

// KeyPair is the process-wide ES256 signing pair. It is immutable after load and
// must never be serialized or logged; String only prints the public key id.
type KeyPair struct {
	Private *ecdsa.PrivateKey
	Public  *ecdsa.PublicKey

	publicDER []byte
	keyID     string
}

func newKeyPair(priv *ecdsa.PrivateKey) (*KeyPair, error) {
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(der)
	return &KeyPair{
		Private:   priv,
		Public:    &priv.PublicKey,
		publicDER: der,
		keyID:     base64.RawURLEncoding.EncodeToString(sum[:12]),
	}, nil
}

// PublicKeyDER returns a copy of the PKIX encoding of the public half.
func (k *KeyPair) PublicKeyDER() []byte {
	return append([]byte(nil), k.publicDER...)
}

// KeyID is a short fingerprint of the public key, safe to log.
func (k *KeyPair) KeyID() string {
	return k.keyID
}

func (k *KeyPair) String() string {
	return "KeyPair(" + Algorithm + ", " + Curve + ", kid=" + k.keyID + ")"
}

// GoString keeps %#v from dumping the private scalar.
func (k *KeyPair) GoString() string {
	return k.String()
}
