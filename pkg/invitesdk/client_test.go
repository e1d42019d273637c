package invitesdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestIssueCodeSendsTokenAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/invites/codes", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"notes":"for sam","expiration_hours":2}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"01J","kind":"code","token":"ABCD2345","issued_by":"u1",` +
			`"created_at":"2026-01-01T00:00:00Z","expires_at":"2026-01-01T02:00:00Z","is_used":false}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL + "/").WithToken("tok")
	inv, err := client.IssueCode(context.Background(), IssueCodeRequest{Notes: "for sam", ExpirationHours: 2})
	require.NoError(t, err)
	require.Equal(t, "ABCD2345", inv.Token)
	require.Equal(t, "u1", inv.IssuedBy)
	require.Equal(t, 2*time.Hour, inv.ExpiresAt.Sub(inv.CreatedAt))
}

func TestWithTokenDoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	base := NewClient("http://example.com")
	authed := base.WithToken("tok")

	require.Empty(t, base.AccessToken)
	require.Equal(t, "tok", authed.AccessToken)
	require.Same(t, base.HTTPClient, authed.HTTPClient)
}

func TestValidateEscapesToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		require.Equal(t, "/v1/invites/emails/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(ValidateResponse{Valid: true, Kind: "email", Email: "a@b.co"})
	}))
	t.Cleanup(srv.Close)

	v, err := NewClient(srv.URL).ValidateEmailInvite(context.Background(), "a/b")
	require.NoError(t, err)
	require.True(t, v.Valid)
	require.Equal(t, "a@b.co", v.Email)
}

func TestErrorResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		header     map[string]string
		body       string
		wantCode   string
		wantRetry  time.Duration
		predicates []func(error) bool
	}{
		{
			name:       "invalid invite",
			status:     http.StatusNotFound,
			body:       `{"error":"invalid_invite","error_description":"invite is invalid or expired"}`,
			wantCode:   ErrorCodeInvalidInvite,
			predicates: []func(error) bool{IsInvalidInvite},
		},
		{
			name:       "quota",
			status:     http.StatusConflict,
			body:       `{"error":"quota_exceeded"}`,
			wantCode:   ErrorCodeQuotaExceeded,
			predicates: []func(error) bool{IsQuotaExceeded},
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			header:     map[string]string{"Retry-After": "7"},
			body:       `{"error":"rate_limit_exceeded"}`,
			wantCode:   ErrorCodeRateLimitExceeded,
			wantRetry:  7 * time.Second,
			predicates: []func(error) bool{IsRateLimited},
		},
		{
			name:     "non json body",
			status:   http.StatusBadGateway,
			body:     `upstream down`,
			wantCode: ErrorCodeServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			_, err := NewClient(srv.URL).WithToken("tok").GetQuota(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.wantCode, apiErr.Code)
			require.Equal(t, tt.wantRetry, apiErr.RetryAfter)
			for _, p := range tt.predicates {
				require.True(t, p(err))
			}
		})
	}
}
