// Package workflow implements the viewing-to-lease pipeline: slot
// booking, viewing progress tracking, the application gate, invitation
// issuing and the tenancy orchestration that follows an accepted
// application. Services hold no state of their own; every transition
// goes through the database.Store conditional updates.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
)

const notifyTimeout = 5 * time.Second

// notify dispatches a fire-and-forget notification in the background.
// Delivery failures are logged and never surfaced to the caller; the
// workflow transition has already committed by the time this runs.
func notify(log *slog.Logger, n external.Notifier, recipientID, event string, payload map[string]interface{}) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.Send(ctx, recipientID, event, payload); err != nil {
			log.Warn("notification dispatch failed", "event", event, "recipient", recipientID, "error", err)
		}
	}()
}
