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

// ViewingTracker advances a viewing through its lattice: requested ->
// scheduled -> completed -> confirmed -> application_sent. Completion
// and the two flags only ever move forward; there is no undo.
type ViewingTracker struct {
	store    database.Store
	notifier external.Notifier
	log      *slog.Logger
}

func NewViewingTracker(store database.Store, notifier external.Notifier, log *slog.Logger) *ViewingTracker {
	return &ViewingTracker{store: store, notifier: notifier, log: log}
}

// Request records a tenant's interest in viewing a property. Repeat
// requests for the same pair return the existing viewing unchanged.
func (t *ViewingTracker) Request(ctx context.Context, tenantID, propertyID string, conversationID *string, notes string) (*models.Viewing, error) {
	prop, err := t.store.GetProperty(propertyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	existing, err := t.store.FindViewingForPair(propertyID, tenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	viewing := &models.Viewing{
		PropertyID:     propertyID,
		LandlordID:     prop.LandlordID,
		TenantID:       tenantID,
		ConversationID: conversationID,
		Status:         models.ViewingRequested,
		Notes:          notes,
	}
	if err := t.store.CreateViewing(viewing); err != nil {
		return nil, err
	}
	notify(t.log, t.notifier, prop.LandlordID, "viewing.requested", map[string]interface{}{
		"viewing_id":  viewing.ID,
		"property_id": propertyID,
		"tenant_id":   tenantID,
	})
	return viewing, nil
}

// Complete marks the viewing as having taken place. Landlord-only.
func (t *ViewingTracker) Complete(ctx context.Context, landlordID, viewingID string) (*models.Viewing, error) {
	viewing, err := t.authorize(viewingID, landlordID)
	if err != nil {
		return nil, err
	}
	ok, err := t.store.CompleteViewing(viewingID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: viewing is %s", ErrPreconditionFailed, viewing.Status)
	}
	return t.store.GetViewing(viewingID)
}

// Confirm sets the landlord's confirmation flag. Requires a completed
// viewing.
func (t *ViewingTracker) Confirm(ctx context.Context, landlordID, viewingID string) (*models.Viewing, error) {
	if _, err := t.authorize(viewingID, landlordID); err != nil {
		return nil, err
	}
	ok, err := t.store.ConfirmViewing(viewingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: viewing has not been completed", ErrPreconditionFailed)
	}
	return t.store.GetViewing(viewingID)
}

// SendApplicationAccess grants the tenant the right to apply. Requires
// a confirmed viewing; this is the flag the application gate reads.
func (t *ViewingTracker) SendApplicationAccess(ctx context.Context, landlordID, viewingID string) (*models.Viewing, error) {
	viewing, err := t.authorize(viewingID, landlordID)
	if err != nil {
		return nil, err
	}
	ok, err := t.store.MarkApplicationSent(viewingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: viewing has not been confirmed", ErrPreconditionFailed)
	}
	notify(t.log, t.notifier, viewing.TenantID, "application.access_granted", map[string]interface{}{
		"viewing_id":  viewingID,
		"property_id": viewing.PropertyID,
	})
	return t.store.GetViewing(viewingID)
}

// Cancel lets the tenant withdraw a viewing that has not yet taken
// place. Any slot booking the tenant holds for the property is
// released as well.
func (t *ViewingTracker) Cancel(ctx context.Context, tenantID, viewingID string) error {
	viewing, err := t.store.GetViewing(viewingID)
	if err != nil {
		return mapNotFound(err)
	}
	if viewing.TenantID != tenantID {
		return ErrNotFound
	}
	ok, err := t.store.CancelViewing(viewingID, tenantID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: viewing is %s", ErrPreconditionFailed, viewing.Status)
	}
	if slot, err := t.store.FindActiveBooking(tenantID, viewing.PropertyID); err == nil && slot != nil {
		if _, err := t.store.ReleaseSlot(slot.ID, tenantID); err != nil {
			t.log.Warn("failed to release slot after viewing cancel", "slot_id", slot.ID, "error", err)
		}
	}
	notify(t.log, t.notifier, viewing.LandlordID, "viewing.cancelled", map[string]interface{}{
		"viewing_id":  viewingID,
		"property_id": viewing.PropertyID,
		"tenant_id":   tenantID,
	})
	return nil
}

// ListForTenant returns the tenant's viewings, newest first.
func (t *ViewingTracker) ListForTenant(ctx context.Context, tenantID string) ([]models.Viewing, error) {
	return t.store.ListViewingsByTenant(tenantID)
}

// ListForLandlord returns viewings across the landlord's properties.
func (t *ViewingTracker) ListForLandlord(ctx context.Context, landlordID string) ([]models.Viewing, error) {
	return t.store.ListViewingsByLandlord(landlordID)
}

// authorize loads the viewing and hides it from anyone but its
// landlord. A mismatch reads the same as a missing row.
func (t *ViewingTracker) authorize(viewingID, landlordID string) (*models.Viewing, error) {
	viewing, err := t.store.GetViewing(viewingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if viewing.LandlordID != landlordID {
		return nil, ErrNotFound
	}
	return viewing, nil
}
