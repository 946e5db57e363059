package models

import "time"

type InviteStatus string

const (
	InviteInvited InviteStatus = "invited"
	InviteUsed    InviteStatus = "used"
	InviteExpired InviteStatus = "expired"
)

// ApplicationInvite is a landlord-issued bypass token letting a specific
// tenant apply for a specific property without a completed viewing.
// Expiry is a read-time check against ExpiresAt; the row only moves to
// "used" when an application submission consumes it.
type ApplicationInvite struct {
	ID             string       `json:"id" db:"id"`
	Token          string       `json:"token" db:"token"`
	PropertyID     string       `json:"property_id" db:"property_id"`
	LandlordID     string       `json:"landlord_id" db:"landlord_id"`
	TenantID       string       `json:"tenant_id" db:"tenant_id"`
	ConversationID *string      `json:"conversation_id,omitempty" db:"conversation_id"`
	Status         InviteStatus `json:"status" db:"status"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt      time.Time    `json:"expires_at" db:"expires_at"`
	UsedAt         *time.Time   `json:"used_at,omitempty" db:"used_at"`
}

// Live reports whether the invite can still open the application gate.
func (i *ApplicationInvite) Live(now time.Time) bool {
	return i.Status == InviteInvited && now.Before(i.ExpiresAt)
}
