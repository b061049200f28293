package store

import "time"

// Run records one simulation invocation: its identity, the scenario
// and seed that produced it, and the simulated window it covered.
type Run struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	Seed       int64     `json:"seed"`
	SimStart   time.Time `json:"sim_start"`
	SimEnd     time.Time `json:"sim_end"`
	EventCount int       `json:"event_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// timeFormat is the stored timestamp representation. RFC3339 with
// nanoseconds keeps millisecond scheduler resolution intact and sorts
// lexically within a run.
const timeFormat = time.RFC3339Nano
