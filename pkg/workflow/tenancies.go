package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

// LeaseTerms are the landlord-supplied economics of a new tenancy.
type LeaseTerms struct {
	MonthlyRent     int64 // cents
	SecurityDeposit int64 // cents
	StartDate       time.Time
	EndDate         *time.Time
	CustomClauses   []models.LeaseClause
}

// LeaseOrchestrator drives a tenancy from creation through document
// generation and dual signature to the initial payment request. Every
// transition is strictly ordered; the store's conditional updates
// reject regressions and skips.
type LeaseOrchestrator struct {
	store    database.Store
	docs     external.DocumentGenerator
	payments external.PaymentGateway
	storage  external.DocumentStorage
	notifier external.Notifier
	log      *slog.Logger
}

func NewLeaseOrchestrator(store database.Store, docs external.DocumentGenerator, payments external.PaymentGateway, storage external.DocumentStorage, notifier external.Notifier, log *slog.Logger) *LeaseOrchestrator {
	return &LeaseOrchestrator{store: store, docs: docs, payments: payments, storage: storage, notifier: notifier, log: log}
}

// StartLease creates a draft tenancy from an accepted application.
// Idempotent: calling it again for the same triple returns the existing
// tenancy regardless of how far it has progressed.
func (o *LeaseOrchestrator) StartLease(ctx context.Context, landlordID, tenantID, propertyID string, terms LeaseTerms) (*models.Tenancy, error) {
	app, err := o.store.FindApplicationForPair(tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.LandlordID != landlordID {
		return nil, ErrNotFound
	}
	if app.Status != models.ApplicationAccepted {
		return nil, fmt.Errorf("%w: application is %s, not accepted", ErrPreconditionFailed, app.Status)
	}
	existing, err := o.store.FindTenancyForTriple(landlordID, tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	tenancy := &models.Tenancy{
		PropertyID:      propertyID,
		LandlordID:      landlordID,
		TenantID:        tenantID,
		MonthlyRent:     terms.MonthlyRent,
		SecurityDeposit: terms.SecurityDeposit,
		StartDate:       terms.StartDate,
		EndDate:         terms.EndDate,
		LeaseStatus:     models.LeaseDraft,
		CustomClauses:   terms.CustomClauses,
	}
	if err := o.store.CreateTenancy(tenancy); err != nil {
		return nil, err
	}
	notify(o.log, o.notifier, tenantID, "lease.started", map[string]interface{}{
		"tenancy_id":  tenancy.ID,
		"property_id": propertyID,
	})
	return tenancy, nil
}

// GenerateDocument renders the lease document and moves the tenancy to
// awaiting_tenant_signature. Landlord-only, draft-only.
func (o *LeaseOrchestrator) GenerateDocument(ctx context.Context, landlordID, tenancyID string) (*models.Tenancy, error) {
	tenancy, err := o.authorizeLandlord(tenancyID, landlordID)
	if err != nil {
		return nil, err
	}
	if tenancy.LeaseStatus != models.LeaseDraft {
		return nil, fmt.Errorf("%w: lease is %s", ErrPreconditionFailed, tenancy.LeaseStatus)
	}
	path, err := o.docs.GenerateLease(ctx, tenancy)
	if err != nil {
		return nil, fmt.Errorf("%w: document generation: %v", ErrExternalService, err)
	}
	ok, err := o.store.AttachLeaseDocument(tenancyID, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: lease left draft concurrently", ErrConflict)
	}
	notify(o.log, o.notifier, tenancy.TenantID, "lease.ready_to_sign", map[string]interface{}{
		"tenancy_id": tenancyID,
	})
	return o.store.GetTenancy(tenancyID)
}

// TenantSign records the tenant's signature. Only valid while the lease
// is awaiting the tenant; the landlord cannot be leapfrogged.
func (o *LeaseOrchestrator) TenantSign(ctx context.Context, tenantID, tenancyID string) (*models.Tenancy, error) {
	ok, err := o.store.TenantSignLease(tenancyID, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		tenancy, err := o.store.GetTenancy(tenancyID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		if tenancy.TenantID != tenantID {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: lease is %s", ErrPreconditionFailed, tenancy.LeaseStatus)
	}
	tenancy, err := o.store.GetTenancy(tenancyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	notify(o.log, o.notifier, tenancy.LandlordID, "lease.tenant_signed", map[string]interface{}{
		"tenancy_id": tenancyID,
	})
	return tenancy, nil
}

// LandlordSign records the landlord's counter-signature and completes
// the lease. Requires the tenant to have signed first.
func (o *LeaseOrchestrator) LandlordSign(ctx context.Context, landlordID, tenancyID string) (*models.Tenancy, error) {
	ok, err := o.store.LandlordSignLease(tenancyID, landlordID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		tenancy, err := o.store.GetTenancy(tenancyID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		if tenancy.LandlordID != landlordID {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: lease is %s", ErrPreconditionFailed, tenancy.LeaseStatus)
	}
	tenancy, err := o.store.GetTenancy(tenancyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	notify(o.log, o.notifier, tenancy.TenantID, "lease.completed", map[string]interface{}{
		"tenancy_id": tenancyID,
	})
	return tenancy, nil
}

// DocumentURL returns a short-lived download URL for the lease
// document. Either party may fetch it once a document exists.
func (o *LeaseOrchestrator) DocumentURL(ctx context.Context, actorID, tenancyID string) (string, error) {
	tenancy, err := o.store.GetTenancy(tenancyID)
	if err != nil {
		return "", mapNotFound(err)
	}
	if tenancy.TenantID != actorID && tenancy.LandlordID != actorID {
		return "", ErrNotFound
	}
	if tenancy.LeaseDocumentPath == nil {
		return "", fmt.Errorf("%w: no lease document has been generated", ErrPreconditionFailed)
	}
	url, err := o.storage.PresignDownload(ctx, *tenancy.LeaseDocumentPath)
	if err != nil {
		return "", fmt.Errorf("%w: document storage: %v", ErrExternalService, err)
	}
	return url, nil
}

// RequestInitialPayment opens a checkout for first month's rent plus
// the security deposit. Only valid on a completed lease.
func (o *LeaseOrchestrator) RequestInitialPayment(ctx context.Context, landlordID, tenancyID string) (*models.PaymentRecord, error) {
	tenancy, err := o.authorizeLandlord(tenancyID, landlordID)
	if err != nil {
		return nil, err
	}
	if tenancy.LeaseStatus != models.LeaseCompleted {
		return nil, fmt.Errorf("%w: lease is %s, not completed", ErrPreconditionFailed, tenancy.LeaseStatus)
	}
	reference := uuid.NewString()
	amount := tenancy.MonthlyRent + tenancy.SecurityDeposit
	checkoutURL, err := o.payments.CreateCheckout(ctx, tenancyID, reference, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: payment checkout: %v", ErrExternalService, err)
	}
	record := &models.PaymentRecord{
		TenancyID:   tenancyID,
		Type:        models.PaymentInitial,
		Reference:   reference,
		AmountCents: amount,
		CheckoutURL: checkoutURL,
	}
	if err := o.store.CreatePaymentRecord(record); err != nil {
		return nil, err
	}
	notify(o.log, o.notifier, tenancy.TenantID, "payment.requested", map[string]interface{}{
		"tenancy_id":   tenancyID,
		"reference":    reference,
		"amount_cents": amount,
		"checkout_url": checkoutURL,
	})
	return record, nil
}

// HandlePaymentPaid applies the gateway's webhook confirmation.
// Replayed confirmations for an already-paid reference are absorbed.
func (o *LeaseOrchestrator) HandlePaymentPaid(ctx context.Context, reference string) error {
	ok, err := o.store.MarkPaymentPaid(reference, time.Now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	record, err := o.store.GetPaymentByReference(reference)
	if err != nil {
		return mapNotFound(err)
	}
	if record.PaidAt != nil {
		return nil
	}
	return fmt.Errorf("%w: payment could not be marked paid", ErrConflict)
}

// Get returns the tenancy if the caller is a party to it.
func (o *LeaseOrchestrator) Get(ctx context.Context, actorID, tenancyID string) (*models.Tenancy, error) {
	tenancy, err := o.store.GetTenancy(tenancyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if tenancy.TenantID != actorID && tenancy.LandlordID != actorID {
		return nil, ErrNotFound
	}
	return tenancy, nil
}

// ListForLandlord returns tenancies across the landlord's properties.
func (o *LeaseOrchestrator) ListForLandlord(ctx context.Context, landlordID string) ([]models.Tenancy, error) {
	return o.store.ListTenanciesByLandlord(landlordID)
}

// ListForTenant returns the tenant's tenancies.
func (o *LeaseOrchestrator) ListForTenant(ctx context.Context, tenantID string) ([]models.Tenancy, error) {
	return o.store.ListTenanciesByTenant(tenantID)
}

func (o *LeaseOrchestrator) authorizeLandlord(tenancyID, landlordID string) (*models.Tenancy, error) {
	tenancy, err := o.store.GetTenancy(tenancyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if tenancy.LandlordID != landlordID {
		return nil, ErrNotFound
	}
	return tenancy, nil
}
