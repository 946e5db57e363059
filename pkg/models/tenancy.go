package models

import "time"

type LeaseStatus string

const (
	LeaseDraft                     LeaseStatus = "draft"
	LeaseAwaitingTenantSignature   LeaseStatus = "awaiting_tenant_signature"
	LeaseAwaitingLandlordSignature LeaseStatus = "awaiting_landlord_signature"
	LeaseCompleted                 LeaseStatus = "completed"
)

// LeaseClause is one custom clause on a tenancy. One canonical shape,
// persisted as a JSON array on the tenancy row.
type LeaseClause struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Tenancy is the lease record created once an application is accepted,
// tracked through document generation and dual signature. Transitions
// are strictly ordered: draft -> awaiting_tenant_signature ->
// awaiting_landlord_signature -> completed. No regression, no skipping.
type Tenancy struct {
	ID                string        `json:"id" db:"id"`
	PropertyID        string        `json:"property_id" db:"property_id"`
	LandlordID        string        `json:"landlord_id" db:"landlord_id"`
	TenantID          string        `json:"tenant_id" db:"tenant_id"`
	MonthlyRent       int64         `json:"monthly_rent" db:"monthly_rent"`         // cents
	SecurityDeposit   int64         `json:"security_deposit" db:"security_deposit"` // cents
	StartDate         time.Time     `json:"start_date" db:"start_date"`
	EndDate           *time.Time    `json:"end_date,omitempty" db:"end_date"`
	LeaseStatus       LeaseStatus   `json:"lease_status" db:"lease_status"`
	LeaseDocumentPath *string       `json:"lease_document_path,omitempty" db:"lease_document_path"`
	TenantSignedAt    *time.Time    `json:"tenant_signed_at,omitempty" db:"tenant_signed_at"`
	LandlordSignedAt  *time.Time    `json:"landlord_signed_at,omitempty" db:"landlord_signed_at"`
	CustomClauses     []LeaseClause `json:"custom_clauses,omitempty" db:"custom_clauses"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

type PaymentType string

const (
	PaymentInitial PaymentType = "initial" // first month rent + security deposit
	PaymentRent    PaymentType = "rent"
)

// PaymentRecord is status bookkeeping for the external payment gateway.
// Reference is the caller-supplied id the gateway's webhook echoes back.
type PaymentRecord struct {
	ID          string      `json:"id" db:"id"`
	TenancyID   string      `json:"tenancy_id" db:"tenancy_id"`
	Type        PaymentType `json:"type" db:"type"`
	Reference   string      `json:"reference" db:"reference"`
	AmountCents int64       `json:"amount_cents" db:"amount_cents"`
	CheckoutURL string      `json:"checkout_url,omitempty" db:"checkout_url"`
	PaidAt      *time.Time  `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
