package models

import "time"

type ViewingStatus string

const (
	ViewingRequested ViewingStatus = "requested"
	ViewingScheduled ViewingStatus = "scheduled"
	ViewingCompleted ViewingStatus = "completed"
	ViewingCancelled ViewingStatus = "cancelled"
)

// Viewing tracks one tenant touring one property, regardless of which
// slot mechanism produced it. Status plus the two flags form a
// monotonic lattice: requested -> (scheduled) -> completed -> confirmed
// -> application_sent. Flags are never unset.
type Viewing struct {
	ID              string        `json:"id" db:"id"`
	PropertyID      string        `json:"property_id" db:"property_id"`
	LandlordID      string        `json:"landlord_id" db:"landlord_id"`
	TenantID        string        `json:"tenant_id" db:"tenant_id"`
	ConversationID  *string       `json:"conversation_id,omitempty" db:"conversation_id"`
	ScheduledDate   *time.Time    `json:"scheduled_date,omitempty" db:"scheduled_date"`
	Status          ViewingStatus `json:"status" db:"status"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	Confirmed       bool          `json:"viewing_confirmed" db:"viewing_confirmed"`
	ApplicationSent bool          `json:"application_sent" db:"application_sent"`
	Notes           string        `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}
