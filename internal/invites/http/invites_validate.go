package http

import (
	"net/http"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
)

// ValidateHandler looks up an invite of one kind without consuming it.
type ValidateHandler struct {
	InviteService *service.InviteService
	Kind          domain.InviteKind
}

// ServeHTTP godoc
//
//	@Summary		Validate Invite
//	@Description	Public lookup used by signup pages. Unknown, used and expired tokens are indistinguishable.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string						true	"Invite code or email invite token"
//	@Success		200		{object}	invitesdk.ValidateResponse	"valid, kind, email, expires_at"
//	@Failure		404		{object}	invitesdk.ErrorResponse		"invalid_invite"
//	@Failure		429		{object}	invitesdk.ErrorResponse		"rate_limit_exceeded"
//	@Failure		500		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Router			/v1/invites/codes/{token} [get]
//	@Router			/v1/invites/emails/{token} [get].
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := r.PathValue("token")

	var (
		inv domain.Invite
		ok  bool
		err error
	)
	if h.Kind == domain.KindEmail {
		inv, ok, err = h.InviteService.ValidateEmailInvite(ctx, token)
	} else {
		inv, ok, err = h.InviteService.ValidateCode(ctx, token)
	}

	if err != nil {
		writeServiceError(w, r, err, "validate invite")
		return
	}
	if !ok {
		writeInvalidInvite(w, http.StatusNotFound)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.ValidateResponse{
		Valid:     true,
		Kind:      inv.Kind.String(),
		Email:     inv.Audience,
		ExpiresAt: inv.ExpiresAt,
	})
}
