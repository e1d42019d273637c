// Package jwtxtest mints EdDSA tokens against an in-memory KeySet for tests.
package jwtxtest

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/invites/pkg/jwtx"
)

const (
	Issuer   = "https://auth.test"
	Audience = "invites"
	KID      = "test-key"
)

// TokenIssuer signs tokens with a throwaway Ed25519 key.
type TokenIssuer struct {
	priv ed25519.PrivateKey
	Keys *jwtx.KeySet
	JWK  jwtx.JWK
}

// New creates a TokenIssuer whose public key is loaded into Keys.
func New(t testing.TB) *TokenIssuer {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("jwtxtest: generate key: %v", err)
	}

	jwk := jwtx.NewEd25519JWK(KID, pub)
	keys := jwtx.NewKeySet()
	if err := keys.AddJWK(jwk); err != nil {
		t.Fatalf("jwtxtest: add jwk: %v", err)
	}

	return &TokenIssuer{priv: priv, Keys: keys, JWK: jwk}
}

// Verifier returns an EdDSA verifier expecting Issuer and Audience.
func (i *TokenIssuer) Verifier(t testing.TB) jwtx.Verifier {
	t.Helper()

	v, err := jwtx.NewVerifier(jwtx.AlgEdDSA, i.Keys, jwtx.VerifyOptions{
		Issuer:   Issuer,
		Audience: []string{Audience},
	})
	if err != nil {
		t.Fatalf("jwtxtest: new verifier: %v", err)
	}
	return v
}

// Mint signs a token for sub carrying scopes, valid for an hour.
func (i *TokenIssuer) Mint(t testing.TB, sub string, scopes ...string) string {
	t.Helper()

	now := time.Now()
	return i.MintClaims(t, jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   sub,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Scopes: scopes,
	})
}

// MintClaims signs arbitrary claims with the issuer's key.
func (i *TokenIssuer) MintClaims(t testing.TB, c jwtx.Claims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, c)
	tok.Header["kid"] = KID

	s, err := tok.SignedString(i.priv)
	if err != nil {
		t.Fatalf("jwtxtest: sign: %v", err)
	}
	return s
}
