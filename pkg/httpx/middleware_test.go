package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/jwtx/jwtxtest"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestAuthnAndScopes(t *testing.T) {
	iss := jwtxtest.New(t)

	var gotUser string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = httpx.UserIDFromContext(r.Context())
		claims, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, gotUser, claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	})

	h := httpx.Chain(final,
		httpx.AuthnMiddleware(iss.Verifier(t)),
		httpx.RequireAnyScope("invites:write", "admin:write"),
	)

	serve := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := serve("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "invalid_token", body.Error)
	})

	t.Run("bad token", func(t *testing.T) {
		rec := serve("Bearer nope")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing scope", func(t *testing.T) {
		rec := serve("Bearer " + iss.Mint(t, "user-1", "invites:read"))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})

	t.Run("ok", func(t *testing.T) {
		rec := serve("Bearer " + iss.Mint(t, "user-1", "invites:write"))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "user-1", gotUser)
	})
}

func TestBind(t *testing.T) {
	type body struct {
		Email string `json:"email" validate:"required,email"`
		Notes string `json:"notes" validate:"max=10"`
	}

	bind := func(raw string) (body, error) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		err := httpx.Bind(httptest.NewRecorder(), req, &b)
		return b, err
	}

	b, err := bind(`{"email":"a@example.com","notes":"hi"}`)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", b.Email)

	_, err = bind(`{"email":`)
	var be *httpx.BindError
	require.ErrorAs(t, err, &be)
	require.Equal(t, "malformed JSON body", be.Description)

	_, err = bind(`{"email":"a@example.com","extra":1}`)
	require.ErrorAs(t, err, &be)

	_, err = bind(`{"email":"not-an-email"}`)
	require.ErrorAs(t, err, &be)
	require.Equal(t, "email must be an email address", be.Description)

	_, err = bind(``)
	require.ErrorAs(t, err, &be)
	require.Equal(t, "email is required", be.Description)

	_, err = bind(`{"email":"a@example.com","notes":"far too long for this"}`)
	require.ErrorAs(t, err, &be)
	require.Contains(t, be.Description, "notes must be at most 10")
}
