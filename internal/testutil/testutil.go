// Package testutil provides small helpers shared by package tests:
// seeded random sources and change-event builders.
package testutil

import (
	"math/rand/v2"
	"time"

	"github.com/roach88/agsim/internal/state"
)

// Rand returns a deterministic random source for the given seed, using
// the same PCG construction the CLI uses for seeded runs.
func Rand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Event builds a ChangeEvent literal with less noise at call sites.
func Event(at time.Time, agentID, field, oldValue, newValue string) state.ChangeEvent {
	return state.ChangeEvent{
		Time:     at,
		AgentID:  agentID,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
	}
}
