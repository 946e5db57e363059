package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

type failingDocs struct{}

func (failingDocs) GenerateLease(ctx context.Context, t *models.Tenancy) (string, error) {
	return "", errors.New("renderer offline")
}

type failingPayments struct{}

func (failingPayments) CreateCheckout(ctx context.Context, tenancyID, reference string, amountCents int64) (string, error) {
	return "", errors.New("gateway offline")
}

func newOrchestrator(f *fixture) *LeaseOrchestrator {
	stub := external.NewLogCollaborators(testLogger())
	return NewLeaseOrchestrator(f.store, stub, stub, external.PassthroughStorage{}, nil, testLogger())
}

// acceptApplication seeds an accepted application for the fixture pair.
func acceptApplication(t *testing.T, f *fixture) *models.Application {
	t.Helper()
	app := &models.Application{
		TenantID:   f.tenant.ID,
		LandlordID: f.landlord.ID,
		PropertyID: f.property.ID,
		Status:     models.ApplicationAccepted,
	}
	require.NoError(t, f.store.ReplaceApplication(app))
	return app
}

func leaseTerms() LeaseTerms {
	return LeaseTerms{
		MonthlyRent:     145000,
		SecurityDeposit: 145000,
		StartDate:       time.Now().AddDate(0, 1, 0),
		CustomClauses:   []models.LeaseClause{{Title: "Pets", Body: "One cat permitted."}},
	}
}

func TestStartLeaseRequiresAcceptedApplication(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)

	_, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	assert.ErrorIs(t, err, ErrNotFound)

	app := &models.Application{
		TenantID:   f.tenant.ID,
		LandlordID: f.landlord.ID,
		PropertyID: f.property.ID,
		Status:     models.ApplicationPending,
	}
	require.NoError(t, f.store.ReplaceApplication(app))

	_, err = o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestStartLeaseIsIdempotent(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)
	acceptApplication(t, f)

	first, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)
	assert.Equal(t, models.LeaseDraft, first.LeaseStatus)

	second, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestLeaseSignatureOrdering(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)
	acceptApplication(t, f)

	tenancy, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)

	// No document yet, nobody can sign.
	_, err = o.TenantSign(context.Background(), f.tenant.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	tenancy, err = o.GenerateDocument(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseAwaitingTenantSignature, tenancy.LeaseStatus)
	require.NotNil(t, tenancy.LeaseDocumentPath)

	// Landlord cannot sign before the tenant.
	_, err = o.LandlordSign(context.Background(), f.landlord.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	unchanged, err := f.store.GetTenancy(tenancy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseAwaitingTenantSignature, unchanged.LeaseStatus)
	assert.Nil(t, unchanged.LandlordSignedAt)

	tenancy, err = o.TenantSign(context.Background(), f.tenant.ID, tenancy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseAwaitingLandlordSignature, tenancy.LeaseStatus)
	require.NotNil(t, tenancy.TenantSignedAt)

	// The tenant cannot sign twice.
	_, err = o.TenantSign(context.Background(), f.tenant.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	tenancy, err = o.LandlordSign(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseCompleted, tenancy.LeaseStatus)
	require.NotNil(t, tenancy.LandlordSignedAt)
}

func TestSignatureAuthorizationReadsAsMissing(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)
	acceptApplication(t, f)

	tenancy, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)
	_, err = o.GenerateDocument(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)

	stranger := f.newTenant(t, "stranger@example.com")
	_, err = o.TenantSign(context.Background(), stranger.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateDocumentOnlyFromDraft(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)
	acceptApplication(t, f)

	tenancy, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)
	_, err = o.GenerateDocument(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)

	_, err = o.GenerateDocument(context.Background(), f.landlord.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestGenerateDocumentExternalFailure(t *testing.T) {
	f := newFixture(t)
	stub := external.NewLogCollaborators(testLogger())
	o := NewLeaseOrchestrator(f.store, failingDocs{}, stub, external.PassthroughStorage{}, nil, testLogger())
	acceptApplication(t, f)

	tenancy, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)

	_, err = o.GenerateDocument(context.Background(), f.landlord.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrExternalService)

	// The tenancy stays draft so the landlord can retry.
	got, err := f.store.GetTenancy(tenancy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseDraft, got.LeaseStatus)
}

func completeLease(t *testing.T, f *fixture, o *LeaseOrchestrator) *models.Tenancy {
	t.Helper()
	acceptApplication(t, f)
	tenancy, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)
	_, err = o.GenerateDocument(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)
	_, err = o.TenantSign(context.Background(), f.tenant.ID, tenancy.ID)
	require.NoError(t, err)
	tenancy, err = o.LandlordSign(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)
	return tenancy
}

func TestInitialPaymentRequiresCompletedLease(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)
	acceptApplication(t, f)

	tenancy, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)

	_, err = o.RequestInitialPayment(context.Background(), f.landlord.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestInitialPaymentFlow(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)
	tenancy := completeLease(t, f, o)

	record, err := o.RequestInitialPayment(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentInitial, record.Type)
	assert.Equal(t, tenancy.MonthlyRent+tenancy.SecurityDeposit, record.AmountCents)
	assert.NotEmpty(t, record.Reference)
	assert.NotEmpty(t, record.CheckoutURL)

	require.NoError(t, o.HandlePaymentPaid(context.Background(), record.Reference))
	paid, err := f.store.GetPaymentByReference(record.Reference)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)

	// Webhook replays for a paid reference are absorbed.
	require.NoError(t, o.HandlePaymentPaid(context.Background(), record.Reference))

	err = o.HandlePaymentPaid(context.Background(), "no-such-reference")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInitialPaymentGatewayFailure(t *testing.T) {
	f := newFixture(t)
	stub := external.NewLogCollaborators(testLogger())
	o := NewLeaseOrchestrator(f.store, stub, failingPayments{}, external.PassthroughStorage{}, nil, testLogger())
	tenancy := completeLease(t, f, o)

	_, err := o.RequestInitialPayment(context.Background(), f.landlord.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrExternalService)
}

func TestDocumentURL(t *testing.T) {
	f := newFixture(t)
	o := newOrchestrator(f)
	acceptApplication(t, f)

	tenancy, err := o.StartLease(context.Background(), f.landlord.ID, f.tenant.ID, f.property.ID, leaseTerms())
	require.NoError(t, err)

	_, err = o.DocumentURL(context.Background(), f.tenant.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	_, err = o.GenerateDocument(context.Background(), f.landlord.ID, tenancy.ID)
	require.NoError(t, err)

	url, err := o.DocumentURL(context.Background(), f.tenant.ID, tenancy.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	stranger := f.newTenant(t, "stranger@example.com")
	_, err = o.DocumentURL(context.Background(), stranger.ID, tenancy.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
