package workflow

import (
	"errors"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
)

// Workflow error taxonomy. Core transition functions return one of
// these (possibly wrapped); handlers map them onto HTTP statuses.
var (
	// ErrConflict means a compare-and-swap race was lost, e.g. the slot
	// was booked by someone else between read and write. The caller must
	// refresh and pick again, never silently retry.
	ErrConflict = errors.New("conflict")

	// ErrPreconditionFailed means the entity's current state does not
	// permit the attempted transition, e.g. confirming a viewing that
	// was never completed. Indicates a stale client view.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrNotFound covers both a missing entity and a caller who lacks
	// authority to see it. The two are intentionally indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrExpired means an invite or token is past its validity window.
	ErrExpired = errors.New("expired")

	// ErrExternalService means a collaborator call failed. For
	// fire-and-forget side calls this is logged and swallowed; it only
	// propagates when the collaborator's result is the operation itself
	// (document generation, payment checkout).
	ErrExternalService = errors.New("external service failure")
)

// mapNotFound lifts the store's missing-row error into the workflow
// taxonomy, leaving every other error untouched.
func mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
