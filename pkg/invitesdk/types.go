package invitesdk

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a machine readable code (e.g. "invalid_request", "quota_exceeded")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Issue
// ============================================================================

// IssueCodeRequest is the body of POST /v1/invites/codes.
type IssueCodeRequest struct {
	// Notes is free text stored with the invite
	Notes string `json:"notes,omitempty" validate:"max=500"`

	// ExpirationHours overrides the server default lifetime when non-zero.
	// Negative values create an invite that is already expired.
	ExpirationHours int `json:"expiration_hours,omitempty" validate:"min=-8760,max=8760"`
}

// IssueEmailRequest is the body of POST /v1/invites/emails.
type IssueEmailRequest struct {
	// Email is the invitee address; it is trimmed and lower-cased by the server
	Email string `json:"email" validate:"required,max=320"`

	Notes           string `json:"notes,omitempty" validate:"max=500"`
	ExpirationHours int    `json:"expiration_hours,omitempty" validate:"min=-8760,max=8760"`
}

// InviteResponse describes one ledger record.
type InviteResponse struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Token      string     `json:"token"`
	Email      string     `json:"email,omitempty"`
	IssuedBy   string     `json:"issued_by"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	IsUsed     bool       `json:"is_used"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	RedeemedBy string     `json:"redeemed_by,omitempty"`
}

// EmailInviteResponse is returned by POST /v1/invites/emails.
type EmailInviteResponse struct {
	InviteResponse

	// Delivered is false when mail is disabled or the send failed;
	// the invite exists either way.
	Delivered bool `json:"delivered"`
}

// ============================================================================
// Validate / Redeem
// ============================================================================

// ValidateResponse is returned by the public lookup endpoints. Only valid
// invites produce a 200; anything else is a 404 invalid_invite.
type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	Kind      string    `json:"kind"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedeemRequest is the body of the redeem endpoints.
type RedeemRequest struct {
	Token string `json:"token" validate:"required,max=128"`

	// RedeemerID identifies the new account. Defaults to the caller's subject.
	RedeemerID string `json:"redeemer_id,omitempty" validate:"max=255"`
}

type RedeemResponse struct {
	Redeemed bool `json:"redeemed"`
}

// ============================================================================
// Issuer views
// ============================================================================

// InviteListResponse lists the caller's active invites, newest first.
type InviteListResponse struct {
	Invites []InviteResponse `json:"invites"`
}

// QuotaResponse reports the caller's standing against the active invite quota.
type QuotaResponse struct {
	MaxActive    int   `json:"max_active"`
	Active       int64 `json:"active"`
	CanIssueMore bool  `json:"can_issue_more"`
}

// CleanupResponse is returned by POST /v1/invites/cleanup.
type CleanupResponse struct {
	Removed int64 `json:"removed"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks contains the status of individual dependencies
type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}
