package http

import (
	"net/http"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
)

// RedeemHandler consumes an invite of one kind.
type RedeemHandler struct {
	InviteService *service.InviteService
	Kind          domain.InviteKind
}

// ServeHTTP godoc
//
//	@Summary		Redeem Invite
//	@Description	Consume an invite exactly once. Called by the signup flow after the account exists.
//	@Description	redeemer_id defaults to the token subject.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.RedeemRequest		true	"Redeem request"
//	@Success		200		{object}	invitesdk.RedeemResponse	"redeemed"
//	@Failure		400		{object}	invitesdk.ErrorResponse		"invalid_request or invalid_invite"
//	@Failure		401		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/codes/redeem [post]
//	@Router			/v1/invites/emails/redeem [post].
func (h *RedeemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req invitesdk.RedeemRequest
	if err := httpx.Bind(w, r, &req); err != nil {
		writeServiceError(w, r, err, "redeem invite")
		return
	}

	redeemer := req.RedeemerID
	if redeemer == "" {
		redeemer = httpx.UserIDFromContext(ctx)
	}

	var (
		ok  bool
		err error
	)
	if h.Kind == domain.KindEmail {
		ok, err = h.InviteService.RedeemEmailInvite(ctx, req.Token, redeemer)
	} else {
		ok, err = h.InviteService.RedeemCode(ctx, req.Token, redeemer)
	}

	if err != nil {
		writeServiceError(w, r, err, "redeem invite")
		return
	}
	if !ok {
		writeInvalidInvite(w, http.StatusBadRequest)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.RedeemResponse{Redeemed: true})
}
