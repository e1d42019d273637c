package http

import (
	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
)

func toInviteResponse(inv domain.Invite) invitesdk.InviteResponse {
	return invitesdk.InviteResponse{
		ID:         inv.ID,
		Kind:       inv.Kind.String(),
		Token:      inv.Token,
		Email:      inv.Audience,
		IssuedBy:   inv.IssuedBy,
		Notes:      inv.Notes,
		CreatedAt:  inv.CreatedAt,
		ExpiresAt:  inv.ExpiresAt,
		IsUsed:     inv.IsUsed,
		UsedAt:     inv.UsedAt,
		RedeemedBy: inv.RedeemedBy,
	}
}
