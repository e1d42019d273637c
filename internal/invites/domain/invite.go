package domain

import "time"

// InviteKind distinguishes the two invitation variants sharing one table.
type InviteKind string

const (
	// KindCode is a short, human-shareable code.
	KindCode InviteKind = "code"
	// KindEmail is a long URL-safe token bound to an email address.
	KindEmail InviteKind = "email"
)

// Valid reports whether k is a known kind.
func (k InviteKind) Valid() bool {
	return k == KindCode || k == KindEmail
}

func (k InviteKind) String() string { return string(k) }

type Invite struct {
	ID         string
	Kind       InviteKind
	Token      string
	Audience   string // Lower-cased email address; empty for codes
	IssuedBy   string
	Notes      string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	IsUsed     bool
	UsedAt     *time.Time
	RedeemedBy string // Empty until redeemed
}

// IsExpired reports whether the invite's expiry lies strictly before now.
func (i Invite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsValid reports whether the invite can still be redeemed at now.
func (i Invite) IsValid(now time.Time) bool {
	return !i.IsUsed && !i.IsExpired(now)
}
