package http

import (
	"net/http"

	"github.com/aussiebroadwan/invites/internal/invites/ledger"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
)

type IssueCodeHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Issue Invite Code
//	@Description	Issue an 8-character invite code owned by the caller. Subject to the per-issuer rate limit and active invite quota.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.IssueCodeRequest	true	"Issue request"
//	@Success		201		{object}	invitesdk.InviteResponse	"issued invite"
//	@Failure		400		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	invitesdk.ErrorResponse		"quota_exceeded"
//	@Failure		429		{object}	invitesdk.ErrorResponse		"rate_limit_exceeded"
//	@Failure		500		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/codes [post].
func (h *IssueCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req invitesdk.IssueCodeRequest
	if err := httpx.Bind(w, r, &req); err != nil {
		writeServiceError(w, r, err, "issue invite")
		return
	}

	inv, err := h.InviteService.IssueCode(ctx, httpx.UserIDFromContext(ctx), ledger.IssueOptions{
		Notes:           req.Notes,
		ExpirationHours: req.ExpirationHours,
	})
	if err != nil {
		writeServiceError(w, r, err, "issue invite")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInviteResponse(inv))
}

type IssueEmailHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Issue Email Invite
//	@Description	Issue a long-token invite bound to an email address and send it when mail delivery is enabled.
//	@Description	A failed delivery does not remove the invite; the response reports delivered=false.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.IssueEmailRequest		true	"Issue request"
//	@Success		201		{object}	invitesdk.EmailInviteResponse	"issued invite and delivery status"
//	@Failure		400		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	invitesdk.ErrorResponse			"quota_exceeded"
//	@Failure		429		{object}	invitesdk.ErrorResponse			"rate_limit_exceeded"
//	@Failure		500		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/emails [post].
func (h *IssueEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req invitesdk.IssueEmailRequest
	if err := httpx.Bind(w, r, &req); err != nil {
		writeServiceError(w, r, err, "issue invite")
		return
	}

	res, err := h.InviteService.IssueEmailInvite(ctx, req.Email, httpx.UserIDFromContext(ctx), ledger.IssueOptions{
		Notes:           req.Notes,
		ExpirationHours: req.ExpirationHours,
	})
	if err != nil {
		writeServiceError(w, r, err, "issue invite")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.EmailInviteResponse{
		InviteResponse: toInviteResponse(res.Invite),
		Delivered:      res.Delivered,
	})
}
