package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/internal/invites/ledger"
	"github.com/aussiebroadwan/invites/internal/invites/mail"
	"github.com/aussiebroadwan/invites/internal/invites/metrics"
	"github.com/aussiebroadwan/invites/pkg/cryptox"
	"github.com/aussiebroadwan/invites/pkg/slogx"
)

var (
	ErrQuotaExceeded = ledger.ErrQuotaExceeded
	ErrRateLimited   = errors.New("issue rate limit exceeded")
)

// RateLimitedError carries how long the issuer should wait.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// IssueLimiter throttles issue requests per issuer.
type IssueLimiter interface {
	Allow(key string) (bool, time.Duration)
}

const mailTimeout = 10 * time.Second

// InviteService applies host policy around the ledger: issuance rate limits,
// the active invite quota, email delivery, logging and metrics.
type InviteService struct {
	Ledger *ledger.Ledger

	// MaxActive is the per-issuer quota; <= 0 uses the ledger default.
	MaxActive int

	// IssueLimiter is optional; nil disables issuance throttling.
	IssueLimiter IssueLimiter

	// Mailer is optional; nil disables delivery of email invites.
	Mailer        mail.Mailer
	InviteBaseURL string
}

// EmailIssue is the result of IssueEmailInvite.
type EmailIssue struct {
	Invite    domain.Invite
	Delivered bool
}

// QuotaStatus describes an issuer's standing against the quota.
type QuotaStatus struct {
	MaxActive    int
	Active       int64
	CanIssueMore bool
}

// IssueCode issues an invite code after the rate limit and quota checks.
func (s *InviteService) IssueCode(
	ctx context.Context,
	issuerID string,
	opts ledger.IssueOptions,
) (domain.Invite, error) {
	defer metrics.ObserveDuration("issue_code", time.Now())
	log := slogx.FromContext(ctx)

	if err := s.admit(ctx, domain.KindCode, issuerID); err != nil {
		return domain.Invite{}, err
	}

	opts.MaxActive = s.maxActive()
	inv, err := s.Ledger.IssueCode(ctx, issuerID, opts)
	if err != nil {
		s.logIssueFailure(log, domain.KindCode, issuerID, err)
		return domain.Invite{}, err
	}

	metrics.InvitesIssued.WithLabelValues(string(domain.KindCode)).Inc()
	log.Info("invite code issued",
		slog.String("invite_id", inv.ID),
		slog.String("issued_by", issuerID),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return inv, nil
}

// IssueEmailInvite issues an email invite and, when a Mailer is configured,
// sends the invitation. A failed delivery leaves the invite in place.
func (s *InviteService) IssueEmailInvite(
	ctx context.Context,
	audience string,
	issuerID string,
	opts ledger.IssueOptions,
) (EmailIssue, error) {
	defer metrics.ObserveDuration("issue_email", time.Now())
	log := slogx.FromContext(ctx)

	if err := s.admit(ctx, domain.KindEmail, issuerID); err != nil {
		return EmailIssue{}, err
	}

	opts.MaxActive = s.maxActive()
	inv, err := s.Ledger.IssueEmailInvite(ctx, audience, issuerID, opts)
	if err != nil {
		s.logIssueFailure(log, domain.KindEmail, issuerID, err)
		return EmailIssue{}, err
	}

	metrics.InvitesIssued.WithLabelValues(string(domain.KindEmail)).Inc()
	log.Info("email invite issued",
		slog.String("invite_id", inv.ID),
		slog.String("issued_by", issuerID),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	return EmailIssue{Invite: inv, Delivered: s.deliver(ctx, inv)}, nil
}

func (s *InviteService) maxActive() int {
	if s.MaxActive <= 0 {
		return ledger.DefaultMaxActive
	}
	return s.MaxActive
}

// admit runs the per-issuer rate limit. The quota is enforced by the ledger
// inside the issue transaction.
func (s *InviteService) admit(ctx context.Context, kind domain.InviteKind, issuerID string) error {
	log := slogx.FromContext(ctx)

	if s.IssueLimiter != nil && issuerID != "" {
		if ok, retry := s.IssueLimiter.Allow(issuerID); !ok {
			metrics.IssueRejections.WithLabelValues(string(kind), "rate_limited").Inc()
			log.Warn("invite issue rate limited",
				slog.String("issued_by", issuerID),
				slog.Duration("retry_after", retry),
			)
			return &RateLimitedError{RetryAfter: retry}
		}
	}
	return nil
}

func (s *InviteService) logIssueFailure(log *slog.Logger, kind domain.InviteKind, issuerID string, err error) {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		metrics.IssueRejections.WithLabelValues(string(kind), "quota").Inc()
		log.Warn("invite quota exceeded", slog.String("issued_by", issuerID))
		return
	case errors.Is(err, ledger.ErrInvalidArgument):
		metrics.IssueRejections.WithLabelValues(string(kind), "invalid").Inc()
		log.Warn("invalid invite request", slog.String("kind", string(kind)), slog.Any("error", err))
		return
	}
	log.Error("failed to issue invite",
		slog.String("kind", string(kind)),
		slog.String("issued_by", issuerID),
		slog.Any("error", err),
	)
}

func (s *InviteService) deliver(ctx context.Context, inv domain.Invite) bool {
	log := slogx.FromContext(ctx)

	if s.Mailer == nil {
		metrics.MailDeliveries.WithLabelValues("disabled").Inc()
		return false
	}

	link, err := mail.InviteLink(s.InviteBaseURL, inv.Token)
	if err != nil {
		log.Error("failed to build invite link", slog.Any("error", err))
		metrics.MailDeliveries.WithLabelValues(metrics.OutcomeError).Inc()
		return false
	}

	msg, err := mail.InviteMessage(inv.Audience, link, inv.ExpiresAt, inv.Notes)
	if err != nil {
		log.Error("failed to render invite email", slog.Any("error", err))
		metrics.MailDeliveries.WithLabelValues(metrics.OutcomeError).Inc()
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	id, err := s.Mailer.Send(sendCtx, msg)
	switch {
	case errors.Is(err, mail.ErrCircuitOpen):
		metrics.MailDeliveries.WithLabelValues("circuit_open").Inc()
		log.Warn("invite email skipped, mail circuit open", slog.String("invite_id", inv.ID))
		return false
	case err != nil:
		metrics.MailDeliveries.WithLabelValues(metrics.OutcomeError).Inc()
		log.Warn("invite email delivery failed", slog.String("invite_id", inv.ID), slog.Any("error", err))
		return false
	}

	metrics.MailDeliveries.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Debug("invite email sent", slog.String("invite_id", inv.ID), slog.String("message_id", id))
	return true
}

// ValidateCode reports whether token names a redeemable invite code.
func (s *InviteService) ValidateCode(ctx context.Context, token string) (domain.Invite, bool, error) {
	return s.validate(ctx, domain.KindCode, token, s.Ledger.ValidateCode)
}

// ValidateEmailInvite reports whether token names a redeemable email invite.
func (s *InviteService) ValidateEmailInvite(ctx context.Context, token string) (domain.Invite, bool, error) {
	return s.validate(ctx, domain.KindEmail, token, s.Ledger.ValidateEmailInvite)
}

func (s *InviteService) validate(
	ctx context.Context,
	kind domain.InviteKind,
	token string,
	fn func(context.Context, string) (domain.Invite, bool, error),
) (domain.Invite, bool, error) {
	defer metrics.ObserveDuration("validate_"+string(kind), time.Now())

	inv, ok, err := fn(ctx, token)
	metrics.Validations.WithLabelValues(string(kind), metrics.Outcome(ok, err)).Inc()
	if err != nil {
		slogx.FromContext(ctx).Error("failed to validate invite", slog.String("kind", string(kind)), slog.Any("error", err))
	}
	return inv, ok, err
}

// RedeemCode consumes an invite code on behalf of redeemerID.
func (s *InviteService) RedeemCode(ctx context.Context, token, redeemerID string) (bool, error) {
	return s.redeem(ctx, domain.KindCode, token, redeemerID, s.Ledger.RedeemCode)
}

// RedeemEmailInvite consumes an email invite on behalf of redeemerID.
func (s *InviteService) RedeemEmailInvite(ctx context.Context, token, redeemerID string) (bool, error) {
	return s.redeem(ctx, domain.KindEmail, token, redeemerID, s.Ledger.RedeemEmailInvite)
}

func (s *InviteService) redeem(
	ctx context.Context,
	kind domain.InviteKind,
	token string,
	redeemerID string,
	fn func(context.Context, string, string) (bool, error),
) (bool, error) {
	defer metrics.ObserveDuration("redeem_"+string(kind), time.Now())
	log := slogx.FromContext(ctx)

	ok, err := fn(ctx, token, redeemerID)
	metrics.Redemptions.WithLabelValues(string(kind), metrics.Outcome(ok, err)).Inc()

	switch {
	case errors.Is(err, ledger.ErrInvalidArgument):
		log.Warn("invalid redeem request", slog.Any("error", err))
	case err != nil:
		log.Error("failed to redeem invite", slog.String("kind", string(kind)), slog.Any("error", err))
	case ok:
		log.Info("invite redeemed", slog.String("kind", string(kind)), slog.String("redeemed_by", redeemerID))
	default:
		log.Warn("invite redemption rejected",
			slog.String("kind", string(kind)),
			slog.String("token_fp", cryptox.FingerprintToken(token)),
		)
	}
	return ok, err
}

// ListActive returns the issuer's active invites, newest first.
func (s *InviteService) ListActive(ctx context.Context, issuerID string) ([]domain.Invite, error) {
	defer metrics.ObserveDuration("list_active", time.Now())

	invites, err := s.Ledger.ListActive(ctx, issuerID)
	if err != nil && !errors.Is(err, ledger.ErrInvalidArgument) {
		slogx.FromContext(ctx).Error("failed to list invites", slog.Any("error", err))
	}
	return invites, err
}

// Quota returns the issuer's standing against MaxActive.
func (s *InviteService) Quota(ctx context.Context, issuerID string) (QuotaStatus, error) {
	maxActive := s.maxActive()

	active, err := s.Ledger.ActiveCount(ctx, issuerID)
	if err != nil {
		if !errors.Is(err, ledger.ErrInvalidArgument) {
			slogx.FromContext(ctx).Error("failed to count invites", slog.Any("error", err))
		}
		return QuotaStatus{}, err
	}

	return QuotaStatus{
		MaxActive:    maxActive,
		Active:       active,
		CanIssueMore: active < int64(maxActive),
	}, nil
}

// Cleanup purges expired, never-redeemed invites.
func (s *InviteService) Cleanup(ctx context.Context) (int64, error) {
	defer metrics.ObserveDuration("cleanup", time.Now())
	log := slogx.FromContext(ctx)

	n, err := s.Ledger.Cleanup(ctx)
	if err != nil {
		metrics.CleanupRuns.WithLabelValues(metrics.OutcomeError).Inc()
		log.Error("failed to delete expired invites", slog.Any("error", err))
		return 0, err
	}

	metrics.CleanupRuns.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.CleanupRemoved.Add(float64(n))
	log.Info("expired invites removed", slog.Int64("removed", n))
	return n, nil
}
