package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/invites/internal/invites/ledger"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/invitesdk"
	"github.com/aussiebroadwan/invites/pkg/slogx"
)

// invalidInviteDescription is shared by lookups and redemptions so the
// response never says whether a token is unknown, used or expired.
const invalidInviteDescription = "invite is invalid or expired"

// writeServiceError maps request and service errors to JSON error bodies.
// action completes "Failed to ..." for unexpected errors.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var (
		bindErr    *httpx.BindError
		limitedErr *service.RateLimitedError
	)

	switch {
	case errors.As(err, &bindErr):
		httpx.WriteError(w, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest, bindErr.Description)
	case errors.Is(err, ledger.ErrInvalidArgument):
		desc := strings.TrimPrefix(err.Error(), ledger.ErrInvalidArgument.Error()+": ")
		httpx.WriteError(w, http.StatusBadRequest, invitesdk.ErrorCodeInvalidRequest, desc)
	case errors.Is(err, service.ErrQuotaExceeded):
		httpx.WriteError(w, http.StatusConflict, invitesdk.ErrorCodeQuotaExceeded,
			"Active invite quota reached. Wait for an invite to be redeemed or expire.")
	case errors.As(err, &limitedErr):
		w.Header().Set("Retry-After", strconv.Itoa(httpx.RetryAfterSeconds(limitedErr.RetryAfter)))
		httpx.WriteError(w, http.StatusTooManyRequests, invitesdk.ErrorCodeRateLimitExceeded,
			"Too many invites issued. Please try again later.")
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.String("action", action), slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, invitesdk.ErrorCodeServerError, "Failed to "+action)
	}
}

func writeInvalidInvite(w http.ResponseWriter, code int) {
	httpx.WriteError(w, code, invitesdk.ErrorCodeInvalidInvite, invalidInviteDescription)
}
