package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

func TestBookSlot(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	slot := f.newSlot(t, time.Now().Add(24*time.Hour))

	viewing, err := ledger.Book(context.Background(), f.tenant.ID, slot.ID)
	require.NoError(t, err)
	require.NotNil(t, viewing)
	assert.Equal(t, models.ViewingScheduled, viewing.Status)
	require.NotNil(t, viewing.ScheduledDate)
	assert.True(t, viewing.ScheduledDate.Equal(slot.StartTime))

	got, err := f.store.GetSlot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotBooked, got.Status)
	require.NotNil(t, got.BookedByTenantID)
	assert.Equal(t, f.tenant.ID, *got.BookedByTenantID)
}

func TestBookSlotExactlyOneWinner(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	slot := f.newSlot(t, time.Now().Add(24*time.Hour))

	const tenants = 16
	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < tenants; i++ {
		tenant := f.newTenant(t, "racer"+string(rune('a'+i))+"@example.com")
		wg.Add(1)
		go func(tenantID string) {
			defer wg.Done()
			if _, err := ledger.Book(context.Background(), tenantID, slot.ID); err == nil {
				atomic.AddInt64(&wins, 1)
			}
		}(tenant.ID)
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins, "exactly one booking must win the race")
	got, err := f.store.GetSlot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotBooked, got.Status)
}

func TestBookSlotOnePerProperty(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	first := f.newSlot(t, time.Now().Add(24*time.Hour))
	second := f.newSlot(t, time.Now().Add(48*time.Hour))

	_, err := ledger.Book(context.Background(), f.tenant.ID, first.ID)
	require.NoError(t, err)

	_, err = ledger.Book(context.Background(), f.tenant.ID, second.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBookSlotAlreadyBooked(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	slot := f.newSlot(t, time.Now().Add(24*time.Hour))
	other := f.newTenant(t, "other@example.com")

	_, err := ledger.Book(context.Background(), other.ID, slot.ID)
	require.NoError(t, err)

	_, err = ledger.Book(context.Background(), f.tenant.ID, slot.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	slot := f.newSlot(t, time.Now().Add(24*time.Hour))

	_, err := ledger.Book(context.Background(), f.tenant.ID, slot.ID)
	require.NoError(t, err)
	require.NoError(t, ledger.Cancel(context.Background(), f.tenant.ID, f.property.ID))

	got, err := f.store.GetSlot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotAvailable, got.Status)
	assert.Nil(t, got.BookedByTenantID)

	err = ledger.Cancel(context.Background(), f.tenant.ID, f.property.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	oldSlot := f.newSlot(t, time.Now().Add(24*time.Hour))
	newSlot := f.newSlot(t, time.Now().Add(48*time.Hour))

	_, err := ledger.Book(context.Background(), f.tenant.ID, oldSlot.ID)
	require.NoError(t, err)

	viewing, err := ledger.Reschedule(context.Background(), f.tenant.ID, oldSlot.ID, newSlot.ID)
	require.NoError(t, err)
	require.NotNil(t, viewing.ScheduledDate)
	assert.True(t, viewing.ScheduledDate.Equal(newSlot.StartTime))

	released, err := f.store.GetSlot(oldSlot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotAvailable, released.Status)

	claimed, err := f.store.GetSlot(newSlot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotBooked, claimed.Status)
}

func TestRescheduleRetainsOldBookingOnFailure(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	oldSlot := f.newSlot(t, time.Now().Add(24*time.Hour))
	newSlot := f.newSlot(t, time.Now().Add(48*time.Hour))
	rival := f.newTenant(t, "rival@example.com")

	_, err := ledger.Book(context.Background(), f.tenant.ID, oldSlot.ID)
	require.NoError(t, err)
	_, err = f.store.BookSlot(newSlot.ID, rival.ID)
	require.NoError(t, err)

	_, err = ledger.Reschedule(context.Background(), f.tenant.ID, oldSlot.ID, newSlot.ID)
	assert.ErrorIs(t, err, ErrConflict)

	retained, err := f.store.GetSlot(oldSlot.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotBooked, retained.Status)
	require.NotNil(t, retained.BookedByTenantID)
	assert.Equal(t, f.tenant.ID, *retained.BookedByTenantID)
}

func TestCreateSlotRejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	start := time.Now().Add(24 * time.Hour)

	_, err := ledger.CreateSlot(context.Background(), f.landlord.ID, f.property.ID, start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestCreateSlotWrongLandlord(t *testing.T) {
	f := newFixture(t)
	ledger := NewSlotLedger(f.store, nil, testLogger())
	start := time.Now().Add(24 * time.Hour)

	_, err := ledger.CreateSlot(context.Background(), f.tenant.ID, f.property.ID, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}
