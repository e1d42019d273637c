// Package ledger issues, validates, redeems and expires invitation tokens.
//
// The ledger holds no state of its own; every record lives in the store and
// every time-dependent decision uses the injected Clock. It never logs:
// callers decide what is worth reporting.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/internal/invites/store"
	"github.com/aussiebroadwan/invites/pkg/cryptox"
	"github.com/aussiebroadwan/invites/pkg/idx"
)

var (
	// ErrInvalidArgument is returned for caller mistakes such as a blank issuer.
	ErrInvalidArgument = errors.New("ledger: invalid argument")
	// ErrStore wraps any failure reported by the store.
	ErrStore = errors.New("ledger: store failure")
	// ErrTokenGeneration is returned when no unique token could be produced.
	ErrTokenGeneration = errors.New("ledger: token generation failed")
	// ErrQuotaExceeded is returned by issue when IssueOptions.MaxActive is reached.
	ErrQuotaExceeded = errors.New("ledger: active invite quota exceeded")
)

const (
	CodeLength = 8

	DefaultExpirationHours  = 24
	DefaultMaxActive        = 10
	DefaultMaxIssueAttempts = 5
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// IssueOptions carries the optional parts of an issue request.
type IssueOptions struct {
	Notes string
	// ExpirationHours overrides the ledger default when non-zero. Negative
	// values produce an invite that is already expired.
	ExpirationHours int
	// MaxActive, when positive, caps the issuer's active invites. The count
	// and the insert share one transaction holding the issuer lock.
	MaxActive int
}

type Option func(*Ledger)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithCodeExpiration sets the default lifetime of invite codes.
func WithCodeExpiration(hours int) Option {
	return func(l *Ledger) {
		if hours != 0 {
			l.codeExpiration = hours
		}
	}
}

// WithEmailExpiration sets the default lifetime of email invites.
func WithEmailExpiration(hours int) Option {
	return func(l *Ledger) {
		if hours != 0 {
			l.emailExpiration = hours
		}
	}
}

// WithMaxIssueAttempts bounds the token collision retry loop.
func WithMaxIssueAttempts(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

type Ledger struct {
	store store.Store
	clock Clock

	codeExpiration  int
	emailExpiration int
	maxAttempts     int
}

func New(st store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:           st,
		clock:           systemClock{},
		codeExpiration:  DefaultExpirationHours,
		emailExpiration: DefaultExpirationHours,
		maxAttempts:     DefaultMaxIssueAttempts,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IssueCode creates an 8-character invite code owned by issuerID.
func (l *Ledger) IssueCode(ctx context.Context, issuerID string, opts IssueOptions) (domain.Invite, error) {
	if isBlank(issuerID) {
		return domain.Invite{}, fmt.Errorf("%w: issuer id is required", ErrInvalidArgument)
	}

	return l.issue(ctx, domain.KindCode, "", issuerID, opts, l.codeExpiration, func() (string, error) {
		return cryptox.GenerateCode(CodeLength, cryptox.CodeAlphabet)
	})
}

// IssueEmailInvite creates a long-token invite addressed to audience.
func (l *Ledger) IssueEmailInvite(
	ctx context.Context,
	audience string,
	issuerID string,
	opts IssueOptions,
) (domain.Invite, error) {
	if isBlank(issuerID) {
		return domain.Invite{}, fmt.Errorf("%w: issuer id is required", ErrInvalidArgument)
	}

	email, err := NormalizeEmail(audience)
	if err != nil {
		return domain.Invite{}, err
	}

	return l.issue(ctx, domain.KindEmail, email, issuerID, opts, l.emailExpiration, func() (string, error) {
		return cryptox.GenerateToken(cryptox.TokenSize512)
	})
}

// NormalizeEmail trims and lower-cases address and checks it is a bare
// RFC 5322 address.
func NormalizeEmail(address string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(address))
	if email == "" {
		return "", fmt.Errorf("%w: email address is required", ErrInvalidArgument)
	}

	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", fmt.Errorf("%w: %q is not an email address", ErrInvalidArgument, address)
	}
	return email, nil
}

func (l *Ledger) issue(
	ctx context.Context,
	kind domain.InviteKind,
	audience string,
	issuerID string,
	opts IssueOptions,
	defaultHours int,
	generate func() (string, error),
) (domain.Invite, error) {
	hours := opts.ExpirationHours
	if hours == 0 {
		hours = defaultHours
	}

	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		token, err := generate()
		if err != nil {
			return domain.Invite{}, errors.Join(ErrTokenGeneration, err)
		}

		now := l.clock.Now().UTC()
		inv := domain.Invite{
			ID:        idx.NewAt(now).String(),
			Kind:      kind,
			Token:     token,
			Audience:  audience,
			IssuedBy:  issuerID,
			Notes:     opts.Notes,
			CreatedAt: now,
			ExpiresAt: now.Add(time.Duration(hours) * time.Hour),
		}

		err = l.store.WithTx(ctx, func(tx store.Tx) error {
			return insertWithinQuota(ctx, tx.Invites(), inv, opts.MaxActive, now)
		})
		switch {
		case err == nil:
			return inv, nil
		case errors.Is(err, ErrQuotaExceeded):
			return domain.Invite{}, err
		case errors.Is(err, store.ErrAlreadyExists):
			continue
		default:
			return domain.Invite{}, errors.Join(ErrStore, err)
		}
	}

	return domain.Invite{}, fmt.Errorf("%w: %d attempts collided", ErrTokenGeneration, l.maxAttempts)
}

func insertWithinQuota(
	ctx context.Context,
	repo store.Invites,
	inv domain.Invite,
	maxActive int,
	now time.Time,
) error {
	if maxActive > 0 {
		if err := repo.LockIssuer(ctx, inv.IssuedBy); err != nil {
			return err
		}
		n, err := repo.CountActiveInvites(ctx, inv.IssuedBy, now)
		if err != nil {
			return err
		}
		if n >= int64(maxActive) {
			return ErrQuotaExceeded
		}
	}
	return repo.CreateInvite(ctx, inv)
}

// ValidateCode returns the code's record if it exists, is unused and has not
// expired. Every other outcome, including an empty token, is (zero, false, nil).
func (l *Ledger) ValidateCode(ctx context.Context, token string) (domain.Invite, bool, error) {
	return l.validate(ctx, domain.KindCode, token)
}

// ValidateEmailInvite is ValidateCode for email invites.
func (l *Ledger) ValidateEmailInvite(ctx context.Context, token string) (domain.Invite, bool, error) {
	return l.validate(ctx, domain.KindEmail, token)
}

func (l *Ledger) validate(ctx context.Context, kind domain.InviteKind, token string) (domain.Invite, bool, error) {
	if token == "" {
		return domain.Invite{}, false, nil
	}

	inv, err := l.store.Invites().GetInviteByToken(ctx, kind, token)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invite{}, false, nil
	}
	if err != nil {
		return domain.Invite{}, false, errors.Join(ErrStore, err)
	}

	if !inv.IsValid(l.clock.Now()) {
		return domain.Invite{}, false, nil
	}
	return inv, true, nil
}

// RedeemCode marks the code used by redeemerID. It reports false when the
// code does not exist, was already used or has expired. Of any number of
// concurrent callers at most one sees true.
func (l *Ledger) RedeemCode(ctx context.Context, token, redeemerID string) (bool, error) {
	return l.redeem(ctx, domain.KindCode, token, redeemerID)
}

// RedeemEmailInvite is RedeemCode for email invites.
func (l *Ledger) RedeemEmailInvite(ctx context.Context, token, redeemerID string) (bool, error) {
	return l.redeem(ctx, domain.KindEmail, token, redeemerID)
}

func (l *Ledger) redeem(ctx context.Context, kind domain.InviteKind, token, redeemerID string) (bool, error) {
	if isBlank(redeemerID) {
		return false, fmt.Errorf("%w: redeemer id is required", ErrInvalidArgument)
	}
	if token == "" {
		return false, nil
	}

	ok, err := l.store.Invites().RedeemInvite(ctx, kind, token, redeemerID, l.clock.Now().UTC())
	if err != nil {
		return false, errors.Join(ErrStore, err)
	}
	return ok, nil
}

// CanIssueMore reports whether issuerID holds fewer than maxActive active
// invites across both kinds. maxActive <= 0 means DefaultMaxActive. The answer
// is advisory; set IssueOptions.MaxActive to enforce the cap on issue.
func (l *Ledger) CanIssueMore(ctx context.Context, issuerID string, maxActive int) (bool, error) {
	if maxActive <= 0 {
		maxActive = DefaultMaxActive
	}

	n, err := l.ActiveCount(ctx, issuerID)
	if err != nil {
		return false, err
	}
	return n < int64(maxActive), nil
}

// ActiveCount returns how many active invites issuerID holds.
func (l *Ledger) ActiveCount(ctx context.Context, issuerID string) (int64, error) {
	if isBlank(issuerID) {
		return 0, fmt.Errorf("%w: issuer id is required", ErrInvalidArgument)
	}

	n, err := l.store.Invites().CountActiveInvites(ctx, issuerID, l.clock.Now().UTC())
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	return n, nil
}

// ListActive returns issuerID's active invites of both kinds, newest first.
func (l *Ledger) ListActive(ctx context.Context, issuerID string) ([]domain.Invite, error) {
	if isBlank(issuerID) {
		return nil, fmt.Errorf("%w: issuer id is required", ErrInvalidArgument)
	}

	invites, err := l.store.Invites().ListActiveInvites(ctx, issuerID, l.clock.Now().UTC())
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	if invites == nil {
		invites = []domain.Invite{}
	}
	return invites, nil
}

// Cleanup deletes every never-redeemed invite that has expired and returns
// how many were removed. Redeemed invites are kept as an audit trail.
func (l *Ledger) Cleanup(ctx context.Context) (int64, error) {
	n, err := l.store.Invites().DeleteExpiredInvites(ctx, l.clock.Now().UTC())
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	return n, nil
}

// Identity references are opaque; only blankness is checked.
func isBlank(id string) bool {
	return strings.TrimSpace(id) == ""
}
