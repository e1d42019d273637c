package http

import (
	"net/http"

	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
)

type ListHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		List Active Invites
//	@Description	List the caller's unused, unexpired invites, newest first.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	invitesdk.InviteListResponse	"invites"
//	@Failure		401	{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		403	{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [get].
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invites, err := h.InviteService.ListActive(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err, "list invites")
		return
	}

	resp := invitesdk.InviteListResponse{Invites: make([]invitesdk.InviteResponse, 0, len(invites))}
	for _, inv := range invites {
		resp.Invites = append(resp.Invites, toInviteResponse(inv))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

type QuotaHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Invite Quota
//	@Description	Report how many active invites the caller holds against the quota.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	invitesdk.QuotaResponse		"max_active, active, can_issue_more"
//	@Failure		401	{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/quota [get].
func (h *QuotaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, err := h.InviteService.Quota(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err, "read quota")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.QuotaResponse{
		MaxActive:    q.MaxActive,
		Active:       q.Active,
		CanIssueMore: q.CanIssueMore,
	})
}
