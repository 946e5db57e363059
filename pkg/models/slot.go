package models

import "time"

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// ViewingSlot is a landlord-defined time window during which a property
// can be viewed. Booking is the only compare-and-swap in the system:
// available -> booked happens at most once per booking, and a booked
// slot always records who booked it.
type ViewingSlot struct {
	ID               string     `json:"id" db:"id"`
	PropertyID       string     `json:"property_id" db:"property_id"`
	LandlordID       string     `json:"landlord_id" db:"landlord_id"`
	StartTime        time.Time  `json:"start_time" db:"start_time"`
	EndTime          time.Time  `json:"end_time" db:"end_time"`
	Status           SlotStatus `json:"status" db:"status"`
	BookedByTenantID *string    `json:"booked_by_tenant_id,omitempty" db:"booked_by_tenant_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
