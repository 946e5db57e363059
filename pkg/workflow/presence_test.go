package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresence(t *testing.T) {
	f := newFixture(t)
	presence := NewPresence(f.store, 90*time.Second)

	online, lastSeen, err := presence.Status(context.Background(), f.tenant.ID)
	require.NoError(t, err)
	assert.False(t, online)
	assert.Nil(t, lastSeen)

	require.NoError(t, presence.Heartbeat(context.Background(), f.tenant.ID))
	online, lastSeen, err = presence.Status(context.Background(), f.tenant.ID)
	require.NoError(t, err)
	assert.True(t, online)
	require.NotNil(t, lastSeen)
}

func TestPresenceStaleHeartbeat(t *testing.T) {
	f := newFixture(t)
	presence := NewPresence(f.store, 90*time.Second)

	require.NoError(t, f.store.UpsertHeartbeat(f.tenant.ID, time.Now().Add(-5*time.Minute)))
	online, lastSeen, err := presence.Status(context.Background(), f.tenant.ID)
	require.NoError(t, err)
	assert.False(t, online)
	require.NotNil(t, lastSeen)
}
