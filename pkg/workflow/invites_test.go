package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

func TestInviteIssueAndRedeem(t *testing.T) {
	f := newFixture(t)
	issuer := NewInvitationIssuer(f.store, nil, 72*time.Hour, testLogger())

	invite, err := issuer.Invite(context.Background(), f.landlord.ID, f.property.ID, f.tenant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.InviteInvited, invite.Status)
	assert.NotEmpty(t, invite.Token)
	assert.True(t, invite.ExpiresAt.After(time.Now()))

	redeemed, err := issuer.Redeem(context.Background(), invite.Token)
	require.NoError(t, err)
	assert.Equal(t, invite.ID, redeemed.ID)

	// Redemption is a read: the invite stays live.
	again, err := issuer.Redeem(context.Background(), invite.Token)
	require.NoError(t, err)
	assert.Equal(t, models.InviteInvited, again.Status)
}

func TestInviteWrongLandlord(t *testing.T) {
	f := newFixture(t)
	issuer := NewInvitationIssuer(f.store, nil, 72*time.Hour, testLogger())

	_, err := issuer.Invite(context.Background(), f.tenant.ID, f.property.ID, f.tenant.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReissueExpiresPriorInvite(t *testing.T) {
	f := newFixture(t)
	issuer := NewInvitationIssuer(f.store, nil, 72*time.Hour, testLogger())

	first, err := issuer.Invite(context.Background(), f.landlord.ID, f.property.ID, f.tenant.ID, nil)
	require.NoError(t, err)
	second, err := issuer.Invite(context.Background(), f.landlord.ID, f.property.ID, f.tenant.ID, nil)
	require.NoError(t, err)

	_, err = issuer.Redeem(context.Background(), first.Token)
	assert.ErrorIs(t, err, ErrExpired)

	live, err := f.store.FindLiveInvite(f.property.ID, f.tenant.ID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, second.ID, live.ID)
}

func TestRedeemExpiredInvite(t *testing.T) {
	f := newFixture(t)
	issuer := NewInvitationIssuer(f.store, nil, 72*time.Hour, testLogger())

	invite := &models.ApplicationInvite{
		Token:      "stale-token",
		PropertyID: f.property.ID,
		LandlordID: f.landlord.ID,
		TenantID:   f.tenant.ID,
		Status:     models.InviteInvited,
		ExpiresAt:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.store.CreateInvite(invite))

	_, err := issuer.Redeem(context.Background(), invite.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRedeemUnknownToken(t *testing.T) {
	f := newFixture(t)
	issuer := NewInvitationIssuer(f.store, nil, 72*time.Hour, testLogger())

	_, err := issuer.Redeem(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}
