package state

import "time"

// ChangeEvent records a single field-level state change for one agent.
// It is the only durable artifact the simulation produces: a run is a
// flat, time-ordered sequence of these records across all agents.
//
// The JSON names are the wire contract for anything that serializes,
// prints, or persists a log. Events are immutable once emitted.
type ChangeEvent struct {
	Time     time.Time `json:"Time"`
	AgentID  string    `json:"AgentId"`
	Field    string    `json:"Field"`
	OldValue string    `json:"OldValue"`
	NewValue string    `json:"NewValue"`
}
