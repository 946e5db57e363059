package database

import (
	"errors"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

// ErrNotFound is returned by Get* methods when the row does not exist.
// Find* methods return (nil, nil) instead so callers can branch without
// unwrapping.
var ErrNotFound = errors.New("database: row not found")

// Store is the persistence boundary for the workflow. Every state
// transition is a conditional update: the row changes only if its
// status still equals the expected value, and the bool result reports
// whether a row matched. That single convention is what makes the
// transitions safe under concurrent access without explicit locking.
type Store interface {
	// Users
	CreateUser(u *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)

	// Properties
	CreateProperty(p *models.Property) error
	GetProperty(id string) (*models.Property, error)
	ListPropertiesByLandlord(landlordID string) ([]models.Property, error)

	// Viewing slots
	CreateSlot(s *models.ViewingSlot) error
	GetSlot(id string) (*models.ViewingSlot, error)
	// ListAvailableSlots returns available slots starting after the given
	// instant, ascending by start time.
	ListAvailableSlots(propertyID string, after time.Time) ([]models.ViewingSlot, error)
	// BookSlot claims the slot for the tenant iff it is still available.
	// This is the compare-and-swap that prevents double booking.
	BookSlot(slotID, tenantID string) (bool, error)
	// ReleaseSlot frees the slot iff this tenant currently holds it.
	ReleaseSlot(slotID, tenantID string) (bool, error)
	// RescheduleSlot releases the old slot and claims the new one in a
	// single transaction. If either conditional update misses, nothing
	// changes and the old booking is retained.
	RescheduleSlot(tenantID, oldSlotID, newSlotID string) (bool, error)
	// FindActiveBooking returns the slot this tenant currently holds for
	// the property, or (nil, nil).
	FindActiveBooking(tenantID, propertyID string) (*models.ViewingSlot, error)

	// Viewings
	CreateViewing(v *models.Viewing) error
	GetViewing(id string) (*models.Viewing, error)
	// FindViewingForPair returns the most recent non-cancelled viewing
	// for (property, tenant), or (nil, nil).
	FindViewingForPair(propertyID, tenantID string) (*models.Viewing, error)
	ListViewingsByTenant(tenantID string) ([]models.Viewing, error)
	ListViewingsByLandlord(landlordID string) ([]models.Viewing, error)
	// SetViewingScheduled moves requested|scheduled -> scheduled with a
	// date. Rebooking an already scheduled viewing just moves the date.
	SetViewingScheduled(id string, date time.Time) (bool, error)
	// CompleteViewing moves requested|scheduled -> completed, stamping
	// completed_at. Irreversible.
	CompleteViewing(id string, at time.Time) (bool, error)
	// ConfirmViewing sets viewing_confirmed iff status is completed.
	ConfirmViewing(id string) (bool, error)
	// MarkApplicationSent sets application_sent iff viewing_confirmed.
	MarkApplicationSent(id string) (bool, error)
	// CancelViewing moves requested|scheduled -> cancelled iff the
	// viewing belongs to the tenant.
	CancelViewing(id, tenantID string) (bool, error)

	// Application invites
	CreateInvite(inv *models.ApplicationInvite) error
	GetInviteByToken(token string) (*models.ApplicationInvite, error)
	GetInvite(id string) (*models.ApplicationInvite, error)
	// FindLiveInvite returns an unexpired invited-status invite for
	// (property, tenant), or (nil, nil).
	FindLiveInvite(propertyID, tenantID string, now time.Time) (*models.ApplicationInvite, error)
	// ExpireLiveInvites force-expires still-live invites for the pair, so
	// at most one live invite exists after a new one is issued.
	ExpireLiveInvites(propertyID, tenantID string) error
	// ConsumeInvite moves invited -> used exactly once.
	ConsumeInvite(id string, at time.Time) (bool, error)

	// Applications
	GetApplication(id string) (*models.Application, error)
	// FindApplicationForPair returns the application for (tenant,
	// property), or (nil, nil).
	FindApplicationForPair(tenantID, propertyID string) (*models.Application, error)
	ListApplicationsByLandlord(landlordID string) ([]models.Application, error)
	ListApplicationsByTenant(tenantID string) ([]models.Application, error)
	// ReplaceApplication deletes any prior row for (tenant, property) and
	// inserts the new one. Resubmission is destructive by contract.
	ReplaceApplication(app *models.Application) error
	// AdvanceApplication moves the row between two non-terminal statuses.
	AdvanceApplication(id string, from, to models.ApplicationStatus) (bool, error)
	// DecideApplication sets accepted/declined iff the row belongs to the
	// landlord and is not already terminal.
	DecideApplication(id, landlordID string, to models.ApplicationStatus) (bool, error)

	// Screening
	UpsertScreeningProfile(p *models.ScreeningProfile) error
	GetScreeningProfile(tenantID string) (*models.ScreeningProfile, error)

	// Tenancies
	CreateTenancy(t *models.Tenancy) error
	GetTenancy(id string) (*models.Tenancy, error)
	// FindTenancyForTriple returns the tenancy for (landlord, tenant,
	// property), or (nil, nil). Used to make StartLease idempotent.
	FindTenancyForTriple(landlordID, tenantID, propertyID string) (*models.Tenancy, error)
	ListTenanciesByLandlord(landlordID string) ([]models.Tenancy, error)
	ListTenanciesByTenant(tenantID string) ([]models.Tenancy, error)
	// AttachLeaseDocument stores the generated document path and moves
	// draft -> awaiting_tenant_signature.
	AttachLeaseDocument(id, path string) (bool, error)
	// TenantSignLease stamps tenant_signed_at and moves
	// awaiting_tenant_signature -> awaiting_landlord_signature.
	TenantSignLease(id, tenantID string, at time.Time) (bool, error)
	// LandlordSignLease stamps landlord_signed_at and moves
	// awaiting_landlord_signature -> completed.
	LandlordSignLease(id, landlordID string, at time.Time) (bool, error)

	// Payments
	CreatePaymentRecord(p *models.PaymentRecord) error
	GetPaymentByReference(reference string) (*models.PaymentRecord, error)
	// MarkPaymentPaid stamps paid_at for the reference, once.
	MarkPaymentPaid(reference string, at time.Time) (bool, error)

	// Presence
	UpsertHeartbeat(userID string, at time.Time) error
	GetHeartbeat(userID string) (*models.Heartbeat, error)

	HealthCheck() error
	Close() error
}
