package http

import (
	"net/http"

	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
)

type CleanupHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Purge Expired Invites
//	@Description	Delete expired invites that were never redeemed. Housekeeping does this on a timer; this endpoint runs it now.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	invitesdk.CleanupResponse	"removed"
//	@Failure		401	{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/cleanup [post].
func (h *CleanupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n, err := h.InviteService.Cleanup(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "delete expired invites")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, invitesdk.CleanupResponse{Removed: n})
}
