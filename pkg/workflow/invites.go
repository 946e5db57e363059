package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
)

const inviteTokenBytes = 24

// InvitationIssuer mints and redeems application invites, the bypass
// path through the application gate. At most one live invite exists per
// (property, tenant): issuing a new one force-expires its predecessors.
type InvitationIssuer struct {
	store    database.Store
	notifier external.Notifier
	validity time.Duration
	log      *slog.Logger
}

func NewInvitationIssuer(store database.Store, notifier external.Notifier, validity time.Duration, log *slog.Logger) *InvitationIssuer {
	return &InvitationIssuer{store: store, notifier: notifier, validity: validity, log: log}
}

// Invite issues a fresh invite from the landlord to the tenant for the
// property. Only the property's owner may invite.
func (i *InvitationIssuer) Invite(ctx context.Context, landlordID, propertyID, tenantID string, conversationID *string) (*models.ApplicationInvite, error) {
	prop, err := i.store.GetProperty(propertyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if prop.LandlordID != landlordID {
		return nil, ErrNotFound
	}
	if err := i.store.ExpireLiveInvites(propertyID, tenantID); err != nil {
		return nil, err
	}
	token, err := utils.GenerateURLToken(inviteTokenBytes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	inv := &models.ApplicationInvite{
		Token:          token,
		PropertyID:     propertyID,
		LandlordID:     landlordID,
		TenantID:       tenantID,
		ConversationID: conversationID,
		Status:         models.InviteInvited,
		ExpiresAt:      now.Add(i.validity),
	}
	if err := i.store.CreateInvite(inv); err != nil {
		return nil, err
	}
	notify(i.log, i.notifier, tenantID, "application.invited", map[string]interface{}{
		"invite_id":   inv.ID,
		"property_id": propertyID,
		"expires_at":  inv.ExpiresAt,
	})
	return inv, nil
}

// Redeem resolves an invite token for display. Redemption does not
// consume the invite; only an application submission does.
func (i *InvitationIssuer) Redeem(ctx context.Context, token string) (*models.ApplicationInvite, error) {
	inv, err := i.store.GetInviteByToken(token)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !inv.Live(time.Now()) {
		return nil, fmt.Errorf("%w: invite is no longer valid", ErrExpired)
	}
	return inv, nil
}
