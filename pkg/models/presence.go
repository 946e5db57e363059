package models

import "time"

// Heartbeat is a client's periodic liveness assertion. "Online" is a
// derived predicate (now - LastSeen < threshold), never a stored flag.
type Heartbeat struct {
	UserID   string    `json:"user_id" db:"user_id"`
	LastSeen time.Time `json:"last_seen" db:"last_seen"`
}
