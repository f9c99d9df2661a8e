// Package domain defines the core domain model for tokclaim.
package domain

import "time"

// Operation names an audited store operation.
type Operation string

const (
	OpClaim  Operation = "claim"
	OpAdd    Operation = "add"
	OpRemove Operation = "remove"
)

// Event is the audit record emitted once per store operation.
//
// Result holds the wire name of the outcome (for example "claimed"), or
// "invalid_token", "rate_limited" and "persistence_failure" for the
// corresponding faults.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Requester string    `json:"requester"`
	Token     string    `json:"token"`
	Operation Operation `json:"operation"`
	Result    string    `json:"result"`
}
