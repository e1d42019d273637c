package jwtx_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/invites/pkg/jwtx"
	"github.com/aussiebroadwan/invites/pkg/jwtx/jwtxtest"
)

func TestVerifier_Valid(t *testing.T) {
	iss := jwtxtest.New(t)
	v := iss.Verifier(t)

	claims, err := v.Verify(iss.Mint(t, "user-1", "invites:write"))
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.True(t, claims.HasScope("invites:write"))
}

func TestVerifier_Rejects(t *testing.T) {
	iss := jwtxtest.New(t)
	v := iss.Verifier(t)
	now := time.Now()

	base := func() jwtx.Claims {
		return jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtxtest.Issuer,
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{jwtxtest.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
	}

	t.Run("expired", func(t *testing.T) {
		c := base()
		c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
		_, err := v.Verify(iss.MintClaims(t, c))
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := base()
		c.Issuer = "https://evil.test"
		_, err := v.Verify(iss.MintClaims(t, c))
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := base()
		c.Audience = jwt.ClaimStrings{"someone-else"}
		_, err := v.Verify(iss.MintClaims(t, c))
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("signed by another key", func(t *testing.T) {
		other := jwtxtest.New(t)
		_, err := v.Verify(other.Mint(t, "user-1"))
		require.Error(t, err)
	})
}

func TestVerifier_KeyTypeMismatch(t *testing.T) {
	iss := jwtxtest.New(t)

	// An EC key registered under the kid the EdDSA issuer signs with.
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(jwtx.NewES256JWK(jwtxtest.KID, &priv.PublicKey)))

	v, err := jwtx.NewVerifier(jwtx.AlgEdDSA, keys, jwtx.VerifyOptions{})
	require.NoError(t, err)

	_, err = v.Verify(iss.Mint(t, "user-1"))
	require.Error(t, err)
}

func TestNewVerifier_UnsupportedAlg(t *testing.T) {
	_, err := jwtx.NewVerifier("HS256", jwtx.NewKeySet(), jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrUnsupportedAlg)
}
