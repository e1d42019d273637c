package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories so a Tx can hand out the same
// repos without allowing transactions within transactions.
type Store interface {
	Invites() Invites

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Invites persists invite codes and email invites in one table keyed by kind.
// Every time-dependent query takes now from the caller.
type Invites interface {
	// CreateInvite inserts a new invite. A token already present (of either
	// kind) yields ErrAlreadyExists.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByToken returns the invite of the given kind, used or not.
	GetInviteByToken(ctx context.Context, kind domain.InviteKind, token string) (domain.Invite, error)

	// RedeemInvite marks the invite used in a single conditional update. It
	// reports false if no unused, unexpired invite of that kind matched.
	RedeemInvite(ctx context.Context, kind domain.InviteKind, token, redeemedBy string, now time.Time) (bool, error)

	// LockIssuer serializes issuance for issuedBy until the enclosing
	// transaction ends. Outside a transaction it holds nothing.
	LockIssuer(ctx context.Context, issuedBy string) error

	// CountActiveInvites counts unused, unexpired invites of both kinds issued by issuedBy.
	CountActiveInvites(ctx context.Context, issuedBy string, now time.Time) (int64, error)

	// ListActiveInvites returns the issuer's unused, unexpired invites, newest first.
	ListActiveInvites(ctx context.Context, issuedBy string, now time.Time) ([]domain.Invite, error)

	// DeleteExpiredInvites removes never-redeemed invites that expired before now.
	DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error)
}
