package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending       ApplicationStatus = "pending"
	ApplicationInvited       ApplicationStatus = "invited"
	ApplicationSubmitted     ApplicationStatus = "submitted"
	ApplicationPendingCredit ApplicationStatus = "pending_credit_check"
	ApplicationAccepted      ApplicationStatus = "accepted"
	ApplicationDeclined      ApplicationStatus = "declined"
)

// Terminal reports whether no further transition is allowed.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationAccepted || s == ApplicationDeclined
}

// Application is a tenant's formal request to rent a property. At most
// one row exists per (tenant, property): resubmission deletes the prior
// row before inserting the new one.
type Application struct {
	ID         string            `json:"id" db:"id"`
	TenantID   string            `json:"tenant_id" db:"tenant_id"`
	LandlordID string            `json:"landlord_id" db:"landlord_id"`
	PropertyID string            `json:"property_id" db:"property_id"`
	Status     ApplicationStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}

// ScreeningProfile is tenant-global screening data, reused across
// properties. Upserting it is idempotent per tenant.
type ScreeningProfile struct {
	TenantID         string    `json:"tenant_id" db:"tenant_id"`
	Employer         string    `json:"employer" db:"employer"`
	AnnualIncome     int64     `json:"annual_income" db:"annual_income"` // cents
	ReferenceName    string    `json:"reference_name" db:"reference_name"`
	ReferenceEmail   string    `json:"reference_email" db:"reference_email"`
	IsTenantScreened bool      `json:"is_tenant_screened" db:"is_tenant_screened"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
