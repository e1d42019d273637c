package invitesdk

import (
	"context"
	"net/http"
	"net/url"
)

// IssueCode issues an 8-character invite code (requires invites:write).
func (c *Client) IssueCode(ctx context.Context, req IssueCodeRequest) (*InviteResponse, error) {
	return call[InviteResponse](ctx, c, http.MethodPost, "/v1/invites/codes", req, http.StatusCreated)
}

// IssueEmailInvite issues an email invite and asks the server to deliver it
// (requires invites:write).
func (c *Client) IssueEmailInvite(ctx context.Context, req IssueEmailRequest) (*EmailInviteResponse, error) {
	return call[EmailInviteResponse](ctx, c, http.MethodPost, "/v1/invites/emails", req, http.StatusCreated)
}

// ValidateCode looks up an invite code without consuming it. Unknown, used
// and expired codes all return an error satisfying IsInvalidInvite.
func (c *Client) ValidateCode(ctx context.Context, code string) (*ValidateResponse, error) {
	return call[ValidateResponse](ctx, c, http.MethodGet, "/v1/invites/codes/"+url.PathEscape(code), nil, http.StatusOK)
}

// ValidateEmailInvite looks up an email invite token without consuming it.
func (c *Client) ValidateEmailInvite(ctx context.Context, token string) (*ValidateResponse, error) {
	return call[ValidateResponse](ctx, c, http.MethodGet, "/v1/invites/emails/"+url.PathEscape(token), nil, http.StatusOK)
}

// RedeemCode consumes an invite code (requires invites:redeem).
func (c *Client) RedeemCode(ctx context.Context, req RedeemRequest) (*RedeemResponse, error) {
	return call[RedeemResponse](ctx, c, http.MethodPost, "/v1/invites/codes/redeem", req, http.StatusOK)
}

// RedeemEmailInvite consumes an email invite token (requires invites:redeem).
func (c *Client) RedeemEmailInvite(ctx context.Context, req RedeemRequest) (*RedeemResponse, error) {
	return call[RedeemResponse](ctx, c, http.MethodPost, "/v1/invites/emails/redeem", req, http.StatusOK)
}

// ListInvites returns the caller's active invites (requires invites:read).
func (c *Client) ListInvites(ctx context.Context) (*InviteListResponse, error) {
	return call[InviteListResponse](ctx, c, http.MethodGet, "/v1/invites", nil, http.StatusOK)
}

// GetQuota returns the caller's quota standing (requires invites:read).
func (c *Client) GetQuota(ctx context.Context) (*QuotaResponse, error) {
	return call[QuotaResponse](ctx, c, http.MethodGet, "/v1/invites/quota", nil, http.StatusOK)
}

// Cleanup purges expired, never-redeemed invites (requires admin:write).
func (c *Client) Cleanup(ctx context.Context) (*CleanupResponse, error) {
	return call[CleanupResponse](ctx, c, http.MethodPost, "/v1/invites/cleanup", nil, http.StatusOK)
}
