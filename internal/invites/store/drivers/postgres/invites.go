package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
)

const inviteColumns = `id, kind, token, audience, issued_by, notes, created_at, expires_at, is_used, used_at, redeemed_by`

type invitesRepo struct {
	q querier
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invites (id, kind, token, audience, issued_by, notes, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, string(inv.Kind), inv.Token, inv.Audience, inv.IssuedBy, inv.Notes,
		inv.CreatedAt.UTC(), inv.ExpiresAt.UTC(),
	)
	return mapUniqueViolation(err)
}

func (r *invitesRepo) GetInviteByToken(
	ctx context.Context,
	kind domain.InviteKind,
	token string,
) (domain.Invite, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token = $1 AND kind = $2`,
		token, string(kind),
	)
	if err != nil {
		return domain.Invite{}, err
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[inviteRow])
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *invitesRepo) RedeemInvite(
	ctx context.Context,
	kind domain.InviteKind,
	token string,
	redeemedBy string,
	now time.Time,
) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE invites
		SET is_used = TRUE, used_at = $1, redeemed_by = $2
		WHERE token = $3 AND kind = $4 AND NOT is_used AND expires_at >= $1`,
		now.UTC(), redeemedBy, token, string(kind),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// LockIssuer takes a transaction-scoped advisory lock on the issuer, so
// replicas sharing the database count and insert one at a time.
func (r *invitesRepo) LockIssuer(ctx context.Context, issuedBy string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, issuedBy)
	return err
}

func (r *invitesRepo) CountActiveInvites(ctx context.Context, issuedBy string, now time.Time) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM invites
		WHERE issued_by = $1 AND NOT is_used AND expires_at >= $2`,
		issuedBy, now.UTC(),
	).Scan(&n)
	return n, err
}

func (r *invitesRepo) ListActiveInvites(
	ctx context.Context,
	issuedBy string,
	now time.Time,
) ([]domain.Invite, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+inviteColumns+` FROM invites
		WHERE issued_by = $1 AND NOT is_used AND expires_at >= $2
		ORDER BY created_at DESC, id DESC`,
		issuedBy, now.UTC(),
	)
	if err != nil {
		return nil, err
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByPos[inviteRow])
	if err != nil {
		return nil, err
	}

	out := make([]domain.Invite, 0, len(collected))
	for _, row := range collected {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM invites WHERE NOT is_used AND expires_at < $1`,
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
