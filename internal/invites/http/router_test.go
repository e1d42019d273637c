package http_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	invitehttp "github.com/aussiebroadwan/invites/internal/invites/http"
	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/internal/invites/ledger"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
	"github.com/aussiebroadwan/invites/pkg/jwtx/jwtxtest"
)

var generous = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

type testEnv struct {
	server *httptest.Server
	store  *sqlite.Store
	tokens *jwtxtest.TokenIssuer
	svc    *service.InviteService
}

func newTestEnv(t *testing.T, configure func(*invitehttp.Router)) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "http.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens := jwtxtest.New(t)
	svc := &service.InviteService{Ledger: ledger.New(st), MaxActive: 5}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := invitehttp.NewRouter(tokens.Keys, tokens.Verifier(t), "test", st, logger)
	router.InviteService = svc
	router.Limits = invitehttp.RateLimits{Lookup: generous, Write: generous, Read: generous}
	if configure != nil {
		configure(router)
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, store: st, tokens: tokens, svc: svc}
}

func (e *testEnv) client(t *testing.T, sub string, scopes ...string) *invitesdk.Client {
	t.Helper()
	c := invitesdk.NewClient(e.server.URL)
	if sub == "" {
		return c
	}
	return c.WithToken(e.tokens.Mint(t, sub, scopes...))
}

func requireAPIError(t *testing.T, err error, status int, code string) *invitesdk.APIError {
	t.Helper()
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestCodeLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	issuer := env.client(t, "issuer-1", invitehttp.ScopeInvitesWrite)
	signup := env.client(t, "signup-svc", invitehttp.ScopeInvitesRedeem)
	public := env.client(t, "")

	inv, err := issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{Notes: "for sam"})
	require.NoError(t, err)
	require.Len(t, inv.Token, ledger.CodeLength)
	require.Equal(t, "code", inv.Kind)
	require.Equal(t, "issuer-1", inv.IssuedBy)
	require.Equal(t, "for sam", inv.Notes)
	require.WithinDuration(t, inv.CreatedAt.Add(24*time.Hour), inv.ExpiresAt, time.Second)

	v, err := public.ValidateCode(ctx, inv.Token)
	require.NoError(t, err)
	require.True(t, v.Valid)
	require.Equal(t, "code", v.Kind)

	// A code is not an email token
	_, err = public.ValidateEmailInvite(ctx, inv.Token)
	requireAPIError(t, err, http.StatusNotFound, invitesdk.ErrorCodeInvalidInvite)

	res, err := signup.RedeemCode(ctx, invitesdk.RedeemRequest{Token: inv.Token, RedeemerID: "new-user"})
	require.NoError(t, err)
	require.True(t, res.Redeemed)

	_, err = public.ValidateCode(ctx, inv.Token)
	requireAPIError(t, err, http.StatusNotFound, invitesdk.ErrorCodeInvalidInvite)

	_, err = signup.RedeemCode(ctx, invitesdk.RedeemRequest{Token: inv.Token, RedeemerID: "other-user"})
	apiErr := requireAPIError(t, err, http.StatusBadRequest, invitesdk.ErrorCodeInvalidInvite)
	require.Equal(t, "invite is invalid or expired", apiErr.Description)

	stored, err := env.store.Invites().GetInviteByToken(ctx, domain.KindCode, inv.Token)
	require.NoError(t, err)
	require.Equal(t, "new-user", stored.RedeemedBy)
}

func TestRedeemDefaultsToSubject(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	inv, err := env.client(t, "issuer-1", invitehttp.ScopeInvitesWrite).
		IssueCode(ctx, invitesdk.IssueCodeRequest{})
	require.NoError(t, err)

	_, err = env.client(t, "user-42", invitehttp.ScopeInvitesRedeem).
		RedeemCode(ctx, invitesdk.RedeemRequest{Token: inv.Token})
	require.NoError(t, err)

	stored, err := env.store.Invites().GetInviteByToken(ctx, domain.KindCode, inv.Token)
	require.NoError(t, err)
	require.True(t, stored.IsUsed)
	require.Equal(t, "user-42", stored.RedeemedBy)
}

func TestEmailInvite(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	issuer := env.client(t, "issuer-1", invitehttp.ScopeInvitesWrite)

	_, err := issuer.IssueEmailInvite(ctx, invitesdk.IssueEmailRequest{Email: "not-an-address"})
	requireAPIError(t, err, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest)

	_, err = issuer.IssueEmailInvite(ctx, invitesdk.IssueEmailRequest{})
	apiErr := requireAPIError(t, err, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest)
	require.Equal(t, "email is required", apiErr.Description)

	inv, err := issuer.IssueEmailInvite(ctx, invitesdk.IssueEmailRequest{Email: "  Sam@Example.COM "})
	require.NoError(t, err)
	require.Equal(t, "email", inv.Kind)
	require.Equal(t, "sam@example.com", inv.Email)
	require.False(t, inv.Delivered)
	require.Greater(t, len(inv.Token), ledger.CodeLength)

	v, err := env.client(t, "").ValidateEmailInvite(ctx, inv.Token)
	require.NoError(t, err)
	require.Equal(t, "sam@example.com", v.Email)

	_, err = env.client(t, "signup", invitehttp.ScopeInvitesRedeem).
		RedeemEmailInvite(ctx, invitesdk.RedeemRequest{Token: inv.Token})
	require.NoError(t, err)
}

func TestAuthnAndScopes(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.client(t, "").IssueCode(ctx, invitesdk.IssueCodeRequest{})
	requireAPIError(t, err, http.StatusUnauthorized, invitesdk.ErrorCodeInvalidToken)

	_, err = env.client(t, "").WithToken("garbage").ListInvites(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, invitesdk.ErrorCodeInvalidToken)

	_, err = env.client(t, "reader", invitehttp.ScopeInvitesRead).IssueCode(ctx, invitesdk.IssueCodeRequest{})
	requireAPIError(t, err, http.StatusForbidden, invitesdk.ErrorCodeInsufficientScope)

	_, err = env.client(t, "issuer", invitehttp.ScopeInvitesWrite).Cleanup(ctx)
	requireAPIError(t, err, http.StatusForbidden, invitesdk.ErrorCodeInsufficientScope)

	_, err = env.client(t, "issuer", invitehttp.ScopeInvitesWrite).
		RedeemCode(ctx, invitesdk.RedeemRequest{Token: "ABCDEFGH"})
	requireAPIError(t, err, http.StatusForbidden, invitesdk.ErrorCodeInsufficientScope)
}

func TestQuotaAndList(t *testing.T) {
	env := newTestEnv(t, nil)
	env.svc.MaxActive = 2
	ctx := context.Background()

	issuer := env.client(t, "issuer-1", invitehttp.ScopeInvitesWrite, invitehttp.ScopeInvitesRead)
	other := env.client(t, "issuer-2", invitehttp.ScopeInvitesWrite, invitehttp.ScopeInvitesRead)

	_, err := issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{})
	require.NoError(t, err)
	_, err = issuer.IssueEmailInvite(ctx, invitesdk.IssueEmailRequest{Email: "a@example.com"})
	require.NoError(t, err)

	_, err = issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{})
	requireAPIError(t, err, http.StatusConflict, invitesdk.ErrorCodeQuotaExceeded)

	q, err := issuer.GetQuota(ctx)
	require.NoError(t, err)
	require.Equal(t, &invitesdk.QuotaResponse{MaxActive: 2, Active: 2, CanIssueMore: false}, q)

	list, err := issuer.ListInvites(ctx)
	require.NoError(t, err)
	require.Len(t, list.Invites, 2)

	// Quotas are per issuer
	q, err = other.GetQuota(ctx)
	require.NoError(t, err)
	require.True(t, q.CanIssueMore)

	list, err = other.ListInvites(ctx)
	require.NoError(t, err)
	require.NotNil(t, list.Invites)
	require.Empty(t, list.Invites)
}

func TestIssueRateLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	env.svc.IssueLimiter = httpx.NewKeyedLimiter(httpx.RateLimitConfig{
		RequestsPerWindow: 1, Window: time.Hour, Burst: 1,
	})
	ctx := context.Background()
	issuer := env.client(t, "issuer-1", invitehttp.ScopeInvitesWrite)

	_, err := issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{})
	require.NoError(t, err)

	_, err = issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{})
	apiErr := requireAPIError(t, err, http.StatusTooManyRequests, invitesdk.ErrorCodeRateLimitExceeded)
	require.Greater(t, apiErr.RetryAfter, time.Duration(0))
}

func TestLookupRateLimit(t *testing.T) {
	env := newTestEnv(t, func(r *invitehttp.Router) {
		r.Limits.Lookup = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	})
	public := env.client(t, "")

	_, err := public.ValidateCode(context.Background(), "AAAAAAAA")
	requireAPIError(t, err, http.StatusNotFound, invitesdk.ErrorCodeInvalidInvite)

	_, err = public.ValidateCode(context.Background(), "BBBBBBBB")
	requireAPIError(t, err, http.StatusTooManyRequests, invitesdk.ErrorCodeRateLimitExceeded)
}

func TestCleanup(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	issuer := env.client(t, "issuer-1", invitehttp.ScopeInvitesWrite)

	expired, err := issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{ExpirationHours: -1})
	require.NoError(t, err)
	_, err = issuer.IssueCode(ctx, invitesdk.IssueCodeRequest{})
	require.NoError(t, err)

	_, err = env.client(t, "").ValidateCode(ctx, expired.Token)
	requireAPIError(t, err, http.StatusNotFound, invitesdk.ErrorCodeInvalidInvite)

	res, err := env.client(t, "admin", invitehttp.ScopeAdminWrite).Cleanup(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Removed)
}

func TestBadRequestBodies(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.tokens.Mint(t, "issuer-1", invitehttp.ScopeInvitesWrite)

	tests := []struct {
		name string
		path string
		body string
		desc string
	}{
		{"unknown field", "/v1/invites/codes", `{"nope":1}`, "malformed JSON body"},
		{"not json", "/v1/invites/codes", `{`, "malformed JSON body"},
		{"notes too long", "/v1/invites/codes", `{"notes":"` + string(bytes.Repeat([]byte("x"), 501)) + `"}`,
			"notes must be at most 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, env.server.URL+tt.path, bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.JSONEq(t, `{"error":"invalid_request","error_description":"`+tt.desc+`"}`, string(body))
		})
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	public := env.client(t, "")

	live, err := public.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := public.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, &invitesdk.HealthChecks{Database: "ok", Keys: "ok"}, ready.Checks)

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadyzNotReady(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.store.Close())

	_, err := env.client(t, "").GetReadiness(context.Background())
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
