package models

import "time"

// Property is a rental listing owned by a landlord. Only the fields the
// workflow needs; listing presentation lives elsewhere.
type Property struct {
	ID          string    `json:"id" db:"id"`
	LandlordID  string    `json:"landlord_id" db:"landlord_id"`
	Title       string    `json:"title" db:"title"`
	Address     string    `json:"address" db:"address"`
	MonthlyRent int64     `json:"monthly_rent" db:"monthly_rent"` // cents
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
