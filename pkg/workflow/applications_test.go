package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

type fakeCreditChecker struct {
	err   error
	calls int
}

func (f *fakeCreditChecker) Request(ctx context.Context, applicationID, tenantID string) error {
	f.calls++
	return f.err
}

// grantViewingAccess walks a viewing through to application_sent.
func grantViewingAccess(t *testing.T, f *fixture) {
	t.Helper()
	tracker := NewViewingTracker(f.store, nil, testLogger())
	viewing, err := tracker.Request(context.Background(), f.tenant.ID, f.property.ID, nil, "")
	require.NoError(t, err)
	_, err = tracker.Complete(context.Background(), f.landlord.ID, viewing.ID)
	require.NoError(t, err)
	_, err = tracker.Confirm(context.Background(), f.landlord.ID, viewing.ID)
	require.NoError(t, err)
	_, err = tracker.SendApplicationAccess(context.Background(), f.landlord.ID, viewing.ID)
	require.NoError(t, err)
}

func submitInput() SubmitInput {
	return SubmitInput{
		Employer:       "Acme Ltd",
		AnnualIncome:   5200000,
		ReferenceName:  "Rita Refs",
		ReferenceEmail: "rita@example.com",
	}
}

func TestCanApplyDeniedByDefault(t *testing.T) {
	f := newFixture(t)
	gate := NewApplicationGate(f.store, nil, nil, testLogger())

	ok, err := gate.CanApply(context.Background(), f.tenant.ID, f.property.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubmitDeniedLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	gate := NewApplicationGate(f.store, nil, nil, testLogger())

	_, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	app, err := f.store.FindApplicationForPair(f.tenant.ID, f.property.ID)
	require.NoError(t, err)
	assert.Nil(t, app)
	profile, err := gate.Screening(context.Background(), f.tenant.ID)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestSubmitViaViewingAccess(t *testing.T) {
	f := newFixture(t)
	credit := &fakeCreditChecker{}
	gate := NewApplicationGate(f.store, credit, nil, testLogger())
	grantViewingAccess(t, f)

	ok, err := gate.CanApply(context.Background(), f.tenant.ID, f.property.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPendingCredit, app.Status)
	assert.Equal(t, f.landlord.ID, app.LandlordID)
	assert.Equal(t, 1, credit.calls)

	profile, err := gate.Screening(context.Background(), f.tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.IsTenantScreened)
}

func TestSubmitViaInviteConsumesIt(t *testing.T) {
	f := newFixture(t)
	gate := NewApplicationGate(f.store, nil, nil, testLogger())
	issuer := NewInvitationIssuer(f.store, nil, 72*time.Hour, testLogger())

	invite, err := issuer.Invite(context.Background(), f.landlord.ID, f.property.ID, f.tenant.ID, nil)
	require.NoError(t, err)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)
	// No checker configured: the application stays submitted.
	assert.Equal(t, models.ApplicationSubmitted, app.Status)

	used, err := f.store.GetInvite(invite.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteUsed, used.Status)
	require.NotNil(t, used.UsedAt)

	// The invite is single use: with it consumed, a second submission
	// has no open gate.
	_, err = gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestSubmitDispatchFailureKeepsSubmission(t *testing.T) {
	f := newFixture(t)
	credit := &fakeCreditChecker{err: errors.New("checker down")}
	gate := NewApplicationGate(f.store, credit, nil, testLogger())
	grantViewingAccess(t, f)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationSubmitted, app.Status)
}

func TestResubmissionReplacesApplication(t *testing.T) {
	f := newFixture(t)
	gate := NewApplicationGate(f.store, nil, nil, testLogger())
	grantViewingAccess(t, f)

	first, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)

	second, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = f.store.GetApplication(first.ID)
	assert.Error(t, err, "prior application row must be gone")
}

func TestResubmissionBlockedAfterDecision(t *testing.T) {
	f := newFixture(t)
	gate := NewApplicationGate(f.store, nil, nil, testLogger())
	grantViewingAccess(t, f)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)
	_, err = gate.Decide(context.Background(), f.landlord.ID, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)

	_, err = gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	got, err := f.store.GetApplication(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, got.Status, "decided application must survive the retry")
}

func TestCreditResultRouting(t *testing.T) {
	f := newFixture(t)
	credit := &fakeCreditChecker{}
	gate := NewApplicationGate(f.store, credit, nil, testLogger())
	grantViewingAccess(t, f)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)
	require.Equal(t, models.ApplicationPendingCredit, app.Status)

	require.NoError(t, gate.HandleCreditResult(context.Background(), app.ID, true))
	got, err := f.store.GetApplication(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, got.Status)

	// A duplicate webhook finds the application no longer pending.
	err = gate.HandleCreditResult(context.Background(), app.ID, true)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestCreditFailureDeclines(t *testing.T) {
	f := newFixture(t)
	credit := &fakeCreditChecker{}
	gate := NewApplicationGate(f.store, credit, nil, testLogger())
	grantViewingAccess(t, f)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)

	require.NoError(t, gate.HandleCreditResult(context.Background(), app.ID, false))
	got, err := f.store.GetApplication(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDeclined, got.Status)
}

func TestDecideIsTerminal(t *testing.T) {
	f := newFixture(t)
	credit := &fakeCreditChecker{}
	gate := NewApplicationGate(f.store, credit, nil, testLogger())
	grantViewingAccess(t, f)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)
	require.NoError(t, gate.HandleCreditResult(context.Background(), app.ID, true))

	decided, err := gate.Decide(context.Background(), f.landlord.ID, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, decided.Status)

	_, err = gate.Decide(context.Background(), f.landlord.ID, app.ID, models.ApplicationDeclined)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	got, err := f.store.GetApplication(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, got.Status)
}

func TestDecideWrongLandlord(t *testing.T) {
	f := newFixture(t)
	gate := NewApplicationGate(f.store, nil, nil, testLogger())
	grantViewingAccess(t, f)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)

	_, err = gate.Decide(context.Background(), f.tenant.ID, app.ID, models.ApplicationAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideRejectsNonTerminalTarget(t *testing.T) {
	f := newFixture(t)
	gate := NewApplicationGate(f.store, nil, nil, testLogger())
	grantViewingAccess(t, f)

	app, err := gate.Submit(context.Background(), f.tenant.ID, f.property.ID, submitInput())
	require.NoError(t, err)

	_, err = gate.Decide(context.Background(), f.landlord.ID, app.ID, models.ApplicationPending)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}
