package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

// SlotLedger manages landlord-published viewing slots and tenant
// bookings. Booking is first-write-wins: the conditional update in the
// store decides the race, not anything in this layer.
type SlotLedger struct {
	store    database.Store
	notifier external.Notifier
	log      *slog.Logger
}

func NewSlotLedger(store database.Store, notifier external.Notifier, log *slog.Logger) *SlotLedger {
	return &SlotLedger{store: store, notifier: notifier, log: log}
}

// CreateSlot publishes a new available slot. Only the property's
// landlord may publish for it.
func (l *SlotLedger) CreateSlot(ctx context.Context, landlordID, propertyID string, start, end time.Time) (*models.ViewingSlot, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: slot end must be after start", ErrPreconditionFailed)
	}
	prop, err := l.store.GetProperty(propertyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if prop.LandlordID != landlordID {
		return nil, ErrNotFound
	}
	slot := &models.ViewingSlot{
		PropertyID: propertyID,
		LandlordID: landlordID,
		StartTime:  start,
		EndTime:    end,
		Status:     models.SlotAvailable,
	}
	if err := l.store.CreateSlot(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// ListAvailable returns the property's upcoming available slots.
func (l *SlotLedger) ListAvailable(ctx context.Context, propertyID string) ([]models.ViewingSlot, error) {
	return l.store.ListAvailableSlots(propertyID, time.Now())
}

// Book claims the slot for the tenant. A tenant may hold at most one
// active booking per property; losing the claim race is ErrConflict.
// A successful booking also moves the tenant's viewing for the
// property to scheduled, creating one if no viewing exists yet.
func (l *SlotLedger) Book(ctx context.Context, tenantID, slotID string) (*models.Viewing, error) {
	slot, err := l.store.GetSlot(slotID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	existing, err := l.store.FindActiveBooking(tenantID, slot.PropertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: tenant already holds a booking for this property", ErrConflict)
	}
	ok, err := l.store.BookSlot(slotID, tenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: slot is no longer available", ErrConflict)
	}

	viewing, err := l.syncViewing(slot, tenantID)
	if err != nil {
		return nil, err
	}
	notify(l.log, l.notifier, slot.LandlordID, "viewing.slot_booked", map[string]interface{}{
		"slot_id":     slotID,
		"property_id": slot.PropertyID,
		"tenant_id":   tenantID,
	})
	return viewing, nil
}

// Cancel releases the tenant's active booking for the property.
func (l *SlotLedger) Cancel(ctx context.Context, tenantID, propertyID string) error {
	slot, err := l.store.FindActiveBooking(tenantID, propertyID)
	if err != nil {
		return err
	}
	if slot == nil {
		return ErrNotFound
	}
	ok, err := l.store.ReleaseSlot(slot.ID, tenantID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: booking already released", ErrConflict)
	}
	notify(l.log, l.notifier, slot.LandlordID, "viewing.slot_released", map[string]interface{}{
		"slot_id":     slot.ID,
		"property_id": propertyID,
		"tenant_id":   tenantID,
	})
	return nil
}

// Reschedule atomically moves the tenant's booking from one slot to
// another on the same property. If the new slot cannot be claimed the
// old booking is retained untouched.
func (l *SlotLedger) Reschedule(ctx context.Context, tenantID, oldSlotID, newSlotID string) (*models.Viewing, error) {
	oldSlot, err := l.store.GetSlot(oldSlotID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	newSlot, err := l.store.GetSlot(newSlotID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if oldSlot.PropertyID != newSlot.PropertyID {
		return nil, fmt.Errorf("%w: slots belong to different properties", ErrPreconditionFailed)
	}
	ok, err := l.store.RescheduleSlot(tenantID, oldSlotID, newSlotID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: could not move booking, original retained", ErrConflict)
	}
	viewing, err := l.syncViewing(newSlot, tenantID)
	if err != nil {
		return nil, err
	}
	notify(l.log, l.notifier, newSlot.LandlordID, "viewing.rescheduled", map[string]interface{}{
		"old_slot_id": oldSlotID,
		"new_slot_id": newSlotID,
		"property_id": newSlot.PropertyID,
		"tenant_id":   tenantID,
	})
	return viewing, nil
}

// syncViewing ensures a scheduled viewing exists for (property, tenant)
// dated at the slot's start time. Already completed viewings are left
// alone: the flags only ever move forward.
func (l *SlotLedger) syncViewing(slot *models.ViewingSlot, tenantID string) (*models.Viewing, error) {
	viewing, err := l.store.FindViewingForPair(slot.PropertyID, tenantID)
	if err != nil {
		return nil, err
	}
	if viewing == nil {
		start := slot.StartTime
		viewing = &models.Viewing{
			PropertyID:    slot.PropertyID,
			LandlordID:    slot.LandlordID,
			TenantID:      tenantID,
			ScheduledDate: &start,
			Status:        models.ViewingScheduled,
		}
		if err := l.store.CreateViewing(viewing); err != nil {
			return nil, err
		}
		return viewing, nil
	}
	if _, err := l.store.SetViewingScheduled(viewing.ID, slot.StartTime); err != nil {
		return nil, err
	}
	return l.store.GetViewing(viewing.ID)
}
