package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
)

// Presence derives online status from heartbeats. There is no stored
// online flag: a user is online iff their last heartbeat is within the
// threshold, so staleness never needs cleanup.
type Presence struct {
	store     database.Store
	threshold time.Duration
}

func NewPresence(store database.Store, threshold time.Duration) *Presence {
	return &Presence{store: store, threshold: threshold}
}

// Heartbeat records that the user is active right now.
func (p *Presence) Heartbeat(ctx context.Context, userID string) error {
	return p.store.UpsertHeartbeat(userID, time.Now())
}

// Status reports whether the user is online and when they were last
// seen. A user with no heartbeat on record is simply offline.
func (p *Presence) Status(ctx context.Context, userID string) (online bool, lastSeen *time.Time, err error) {
	hb, err := p.store.GetHeartbeat(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	seen := hb.LastSeen
	return time.Since(seen) <= p.threshold, &seen, nil
}
