package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/invites/internal/invites/ledger"
	"github.com/aussiebroadwan/invites/internal/invites/mail"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/invites/pkg/httpx"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "service.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return ledger.New(s)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "id-1", nil
}

func TestInviteService_Quota(t *testing.T) {
	ctx := context.Background()
	svc := &service.InviteService{Ledger: newTestLedger(t), MaxActive: 2}

	for range 2 {
		_, err := svc.IssueCode(ctx, "issuer", ledger.IssueOptions{})
		require.NoError(t, err)
	}

	_, err := svc.IssueCode(ctx, "issuer", ledger.IssueOptions{})
	require.ErrorIs(t, err, service.ErrQuotaExceeded)

	_, err = svc.IssueEmailInvite(ctx, "a@example.com", "issuer", ledger.IssueOptions{})
	require.ErrorIs(t, err, service.ErrQuotaExceeded)

	status, err := svc.Quota(ctx, "issuer")
	require.NoError(t, err)
	require.Equal(t, service.QuotaStatus{MaxActive: 2, Active: 2, CanIssueMore: false}, status)

	status, err = svc.Quota(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, status.CanIssueMore)
	require.Zero(t, status.Active)
}

func TestInviteService_QuotaUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	svc := &service.InviteService{Ledger: newTestLedger(t), MaxActive: 3}

	const callers = 40
	var (
		mu       sync.Mutex
		issued   int
		rejected int
		wg       sync.WaitGroup
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IssueCode(ctx, "issuer", ledger.IssueOptions{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				issued++
			case errors.Is(err, service.ErrQuotaExceeded):
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 3, issued)
	require.Equal(t, callers-3, rejected)

	status, err := svc.Quota(ctx, "issuer")
	require.NoError(t, err)
	require.EqualValues(t, 3, status.Active)
	require.False(t, status.CanIssueMore)
}

func TestInviteService_RateLimit(t *testing.T) {
	ctx := context.Background()
	svc := &service.InviteService{
		Ledger: newTestLedger(t),
		IssueLimiter: httpx.NewKeyedLimiter(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Hour,
			Burst:             1,
		}),
	}

	_, err := svc.IssueCode(ctx, "issuer", ledger.IssueOptions{})
	require.NoError(t, err)

	_, err = svc.IssueCode(ctx, "issuer", ledger.IssueOptions{})
	require.ErrorIs(t, err, service.ErrRateLimited)

	var rl *service.RateLimitedError
	require.ErrorAs(t, err, &rl)
	require.Greater(t, rl.RetryAfter, time.Duration(0))

	_, err = svc.IssueCode(ctx, "other", ledger.IssueOptions{})
	require.NoError(t, err)
}

func TestInviteService_InvalidArgumentPassesThrough(t *testing.T) {
	ctx := context.Background()
	svc := &service.InviteService{Ledger: newTestLedger(t)}

	_, err := svc.IssueEmailInvite(ctx, "nope", "issuer", ledger.IssueOptions{})
	require.ErrorIs(t, err, ledger.ErrInvalidArgument)

	_, err = svc.RedeemCode(ctx, "ABCDEFGH", "")
	require.ErrorIs(t, err, ledger.ErrInvalidArgument)

	_, err = svc.IssueCode(ctx, "  ", ledger.IssueOptions{})
	require.ErrorIs(t, err, ledger.ErrInvalidArgument)

	_, err = svc.Quota(ctx, "")
	require.ErrorIs(t, err, ledger.ErrInvalidArgument)
}

func TestInviteService_EmailDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("delivered", func(t *testing.T) {
		m := &recordingMailer{}
		svc := &service.InviteService{
			Ledger:        newTestLedger(t),
			Mailer:        m,
			InviteBaseURL: "https://bar.example/join",
		}

		res, err := svc.IssueEmailInvite(ctx, "Guest@Example.com", "issuer", ledger.IssueOptions{Notes: "see you"})
		require.NoError(t, err)
		require.True(t, res.Delivered)

		require.Len(t, m.sent, 1)
		require.Equal(t, "guest@example.com", m.sent[0].To)
		require.Contains(t, m.sent[0].Text, "https://bar.example/join?token="+res.Invite.Token)
		require.Contains(t, m.sent[0].Text, "see you")
	})

	t.Run("failure keeps the invite", func(t *testing.T) {
		m := &recordingMailer{err: errors.New("smtp on fire")}
		svc := &service.InviteService{Ledger: newTestLedger(t), Mailer: m, InviteBaseURL: "https://x"}

		res, err := svc.IssueEmailInvite(ctx, "g@example.com", "issuer", ledger.IssueOptions{})
		require.NoError(t, err)
		require.False(t, res.Delivered)

		_, ok, err := svc.ValidateEmailInvite(ctx, res.Invite.Token)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("disabled", func(t *testing.T) {
		svc := &service.InviteService{Ledger: newTestLedger(t)}

		res, err := svc.IssueEmailInvite(ctx, "g@example.com", "issuer", ledger.IssueOptions{})
		require.NoError(t, err)
		require.False(t, res.Delivered)
	})
}

func TestInviteService_RedeemAndCleanup(t *testing.T) {
	ctx := context.Background()
	svc := &service.InviteService{Ledger: newTestLedger(t)}

	inv, err := svc.IssueCode(ctx, "issuer", ledger.IssueOptions{})
	require.NoError(t, err)
	_, err = svc.IssueCode(ctx, "issuer", ledger.IssueOptions{ExpirationHours: -1})
	require.NoError(t, err)

	ok, err := svc.RedeemCode(ctx, inv.Token, "member")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.RedeemCode(ctx, inv.Token, "member")
	require.NoError(t, err)
	require.False(t, ok)

	list, err := svc.ListActive(ctx, "issuer")
	require.NoError(t, err)
	require.Empty(t, list)

	n, err := svc.Cleanup(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

type countingCleaner struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCleaner) Cleanup(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 0, nil
}

func (c *countingCleaner) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestHousekeepingService(t *testing.T) {
	cleaner := &countingCleaner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hk := service.NewHousekeepingService(cleaner, logger, 20*time.Millisecond)
	hk.Start()

	require.Eventually(t, func() bool { return cleaner.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)

	hk.Stop()
	after := cleaner.Calls()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, after, cleaner.Calls(), "no cleanup after Stop")
}

func TestHousekeepingService_DefaultInterval(t *testing.T) {
	hk := service.NewHousekeepingService(&countingCleaner{}, slog.Default(), 0)
	require.Equal(t, time.Hour, hk.Interval)
}

// blockingCleaner holds each pass open until its context ends.
type blockingCleaner struct {
	started chan struct{}
	ended   chan error
}

func (c *blockingCleaner) Cleanup(ctx context.Context) (int64, error) {
	close(c.started)
	<-ctx.Done()
	c.ended <- ctx.Err()
	return 0, ctx.Err()
}

func TestHousekeepingService_StopCancelsRunningPass(t *testing.T) {
	cleaner := &blockingCleaner{started: make(chan struct{}), ended: make(chan error, 1)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hk := service.NewHousekeepingService(cleaner, logger, time.Hour)
	hk.Start()

	select {
	case <-cleaner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup pass never started")
	}

	stopped := make(chan struct{})
	go func() {
		hk.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a running cleanup pass")
	}
	require.ErrorIs(t, <-cleaner.ended, context.Canceled)
}
