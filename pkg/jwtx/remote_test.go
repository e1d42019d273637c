package jwtx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/invites/pkg/jwtx"
	"github.com/aussiebroadwan/invites/pkg/jwtx/jwtxtest"
)

func TestRemoteKeySet_Refresh(t *testing.T) {
	iss := jwtxtest.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{iss.JWK}})
	}))
	defer srv.Close()

	keys := jwtx.NewKeySet()
	remote := jwtx.NewRemoteKeySet(srv.URL, keys)
	require.NoError(t, remote.Refresh(context.Background()))
	require.True(t, keys.IsReady())

	v, err := jwtx.NewVerifier(jwtx.AlgEdDSA, keys, jwtx.VerifyOptions{Issuer: jwtxtest.Issuer})
	require.NoError(t, err)

	claims, err := v.Verify(iss.Mint(t, "user-9"))
	require.NoError(t, err)
	require.Equal(t, "user-9", claims.Subject)
}

func TestRemoteKeySet_RefreshErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty":
			_, _ = w.Write([]byte(`{"keys":[]}`))
		case "/broken":
			_, _ = w.Write([]byte(`{`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/empty", "/broken", "/500"} {
		t.Run(path, func(t *testing.T) {
			keys := jwtx.NewKeySet()
			err := jwtx.NewRemoteKeySet(srv.URL+path, keys).Refresh(context.Background())
			require.Error(t, err)
			require.False(t, keys.IsReady())
		})
	}
}
