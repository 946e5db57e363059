package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

func TestRequestViewingIsIdempotentPerPair(t *testing.T) {
	f := newFixture(t)
	tracker := NewViewingTracker(f.store, nil, testLogger())

	first, err := tracker.Request(context.Background(), f.tenant.ID, f.property.ID, nil, "keen to view")
	require.NoError(t, err)
	assert.Equal(t, models.ViewingRequested, first.Status)

	second, err := tracker.Request(context.Background(), f.tenant.ID, f.property.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestViewingFlagsAreMonotonic(t *testing.T) {
	f := newFixture(t)
	tracker := NewViewingTracker(f.store, nil, testLogger())

	viewing, err := tracker.Request(context.Background(), f.tenant.ID, f.property.ID, nil, "")
	require.NoError(t, err)

	// Confirm before completion must fail.
	_, err = tracker.Confirm(context.Background(), f.landlord.ID, viewing.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// Application access before confirmation must fail.
	_, err = tracker.SendApplicationAccess(context.Background(), f.landlord.ID, viewing.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	completed, err := tracker.Complete(context.Background(), f.landlord.ID, viewing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewingCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	confirmed, err := tracker.Confirm(context.Background(), f.landlord.ID, viewing.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.Confirmed)

	sent, err := tracker.SendApplicationAccess(context.Background(), f.landlord.ID, viewing.ID)
	require.NoError(t, err)
	assert.True(t, sent.ApplicationSent)

	// Completion is final: a second complete reports the stale state.
	_, err = tracker.Complete(context.Background(), f.landlord.ID, viewing.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestViewingLandlordMismatchReadsAsMissing(t *testing.T) {
	f := newFixture(t)
	tracker := NewViewingTracker(f.store, nil, testLogger())

	viewing, err := tracker.Request(context.Background(), f.tenant.ID, f.property.ID, nil, "")
	require.NoError(t, err)

	intruder := &models.User{Email: "someone@example.com", Role: models.RoleLandlord}
	require.NoError(t, f.store.CreateUser(intruder))

	_, err = tracker.Complete(context.Background(), intruder.ID, viewing.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelViewingReleasesBooking(t *testing.T) {
	f := newFixture(t)
	tracker := NewViewingTracker(f.store, nil, testLogger())
	ledger := NewSlotLedger(f.store, nil, testLogger())
	slot := f.newSlot(t, time.Now().Add(24*time.Hour))

	viewing, err := ledger.Book(context.Background(), f.tenant.ID, slot.ID)
	require.NoError(t, err)

	require.NoError(t, tracker.Cancel(context.Background(), f.tenant.ID, viewing.ID))

	got, err := f.store.GetViewing(viewing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewingCancelled, got.Status)

	released, err := f.store.GetSlot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotAvailable, released.Status)
}

func TestCancelCompletedViewingFails(t *testing.T) {
	f := newFixture(t)
	tracker := NewViewingTracker(f.store, nil, testLogger())

	viewing, err := tracker.Request(context.Background(), f.tenant.ID, f.property.ID, nil, "")
	require.NoError(t, err)
	_, err = tracker.Complete(context.Background(), f.landlord.ID, viewing.ID)
	require.NoError(t, err)

	err = tracker.Cancel(context.Background(), f.tenant.ID, viewing.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestCancelViewingWrongTenant(t *testing.T) {
	f := newFixture(t)
	tracker := NewViewingTracker(f.store, nil, testLogger())

	viewing, err := tracker.Request(context.Background(), f.tenant.ID, f.property.ID, nil, "")
	require.NoError(t, err)

	other := f.newTenant(t, "other@example.com")
	err = tracker.Cancel(context.Background(), other.ID, viewing.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
