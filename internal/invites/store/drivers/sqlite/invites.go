package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/internal/invites/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	err := r.q.CreateInvite(ctx, gen.CreateInviteParams{
		ID:        inv.ID,
		Kind:      string(inv.Kind),
		Token:     inv.Token,
		Audience:  inv.Audience,
		IssuedBy:  inv.IssuedBy,
		Notes:     inv.Notes,
		CreatedAt: inv.CreatedAt.UTC(),
		ExpiresAt: inv.ExpiresAt.UTC(),
	})
	return mapUniqueViolation(err)
}

func (r *invitesRepo) GetInviteByToken(
	ctx context.Context,
	kind domain.InviteKind,
	token string,
) (domain.Invite, error) {
	row, err := r.q.GetInviteByToken(ctx, gen.GetInviteByTokenParams{
		Token: token,
		Kind:  string(kind),
	})
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) RedeemInvite(
	ctx context.Context,
	kind domain.InviteKind,
	token string,
	redeemedBy string,
	now time.Time,
) (bool, error) {
	now = now.UTC()
	n, err := r.q.RedeemInvite(ctx, gen.RedeemInviteParams{
		UsedAt:     sql.NullTime{Time: now, Valid: true},
		RedeemedBy: mapStringNull(redeemedBy),
		Token:      token,
		Kind:       string(kind),
		ExpiresAt:  now,
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// LockIssuer is a no-op: transactions begin IMMEDIATE (see DSN) and already
// hold the database write lock.
func (r *invitesRepo) LockIssuer(context.Context, string) error {
	return nil
}

func (r *invitesRepo) CountActiveInvites(ctx context.Context, issuedBy string, now time.Time) (int64, error) {
	return r.q.CountActiveInvites(ctx, gen.CountActiveInvitesParams{
		IssuedBy:  issuedBy,
		ExpiresAt: now.UTC(),
	})
}

func (r *invitesRepo) ListActiveInvites(
	ctx context.Context,
	issuedBy string,
	now time.Time,
) ([]domain.Invite, error) {
	rows, err := r.q.ListActiveInvites(ctx, gen.ListActiveInvitesParams{
		IssuedBy:  issuedBy,
		ExpiresAt: now.UTC(),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapInvite(row))
	}
	return out, nil
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredInvites(ctx, now.UTC())
}
