package jwtx

import (
	"crypto/ed25519"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints signed session tokens.
type Signer interface {
	Sign(Claims) (string, error)
}

// EdDSASigner signs tokens with Ed25519.
type EdDSASigner struct {
	key ed25519.PrivateKey
}

// NewSignerEdDSA wraps an Ed25519 private key as a Signer.
func NewSignerEdDSA(key ed25519.PrivateKey) *EdDSASigner {
	return &EdDSASigner{key: key}
}

// Sign turns claims into a signed compact JWT string.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return t.SignedString(s.key)
}
