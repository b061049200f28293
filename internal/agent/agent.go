package agent

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/roach88/agsim/internal/state"
)

// Agent is one independent simulated entity. It owns its identity, its
// category table, its current category, and its current state value.
//
// Agents are not safe for concurrent use. The engine mutates an agent
// only from its single-threaded run loop, via Apply.
type Agent[C comparable, S state.Value[S]] struct {
	id      string
	table   Table[C, S]
	current C
	data    S
}

// New constructs an agent starting in the given category.
//
// The initial category must exist in the table and carry a generator;
// anything else is a caller configuration bug and fails construction
// before any simulation begins. The initial state is produced by
// invoking the initial category's generator once.
func New[C comparable, S state.Value[S]](id string, initial C, table Table[C, S], rng *rand.Rand) (*Agent[C, S], error) {
	def, ok := table[initial]
	if !ok {
		return nil, fmt.Errorf("agent %q: initial category %v not in transition table", id, initial)
	}
	if def.Generate == nil {
		return nil, fmt.Errorf("agent %q: initial category %v has no generator", id, initial)
	}

	return &Agent[C, S]{
		id:      state.Canonical(id),
		table:   table.Clone(),
		current: initial,
		data:    def.Generate(rng),
	}, nil
}

// ID returns the agent's identifier as stamped on its events.
func (a *Agent[C, S]) ID() string { return a.id }

// Category returns the agent's current category.
func (a *Agent[C, S]) Category() C { return a.current }

// State returns a copy of the agent's current state value.
func (a *Agent[C, S]) State() S { return a.data.Clone() }

// Step samples the agent's next category by a single weighted draw
// over the current category's successors. It reports false when the
// agent is dormant: the current category is absent from the table,
// terminal, or all its successor weights are non-positive.
func (a *Agent[C, S]) Step(rng *rand.Rand) (C, bool) {
	var zero C
	def, ok := a.table[a.current]
	if !ok || len(def.Successors) == 0 {
		return zero, false
	}
	return pickWeighted(rng, def.Successors)
}

// PeekDelay samples the time in seconds until the agent's next
// transition, exponentially distributed with mean MeanDwell. It
// reports false when the current category has no definition.
//
// A non-positive mean is treated as an instantaneous transition
// (delay 0), not as "never fires".
func (a *Agent[C, S]) PeekDelay(rng *rand.Rand) (float64, bool) {
	def, ok := a.table[a.current]
	if !ok {
		return 0, false
	}
	if math.IsNaN(def.MeanDwell) {
		return 0, false
	}
	if def.MeanDwell <= 0 {
		return 0, true
	}
	// ExpFloat64 has mean 1; scaling by the mean gives rate 1/mean.
	return rng.ExpFloat64() * def.MeanDwell, true
}

// Apply transitions the agent to next at the given time and returns
// the resulting field-level change events, stamped with the agent's
// id. A state identical to the previous one yields no events.
//
// If next has no definition or no generator, the category switch is
// still recorded but no state is generated and no events are
// produced. This is a deliberate silent-skip: mid-run configuration
// gaps silence an agent rather than abort the run.
func (a *Agent[C, S]) Apply(next C, at time.Time, rng *rand.Rand) []state.ChangeEvent {
	a.current = next

	def, ok := a.table[next]
	if !ok || def.Generate == nil {
		return nil
	}

	target := def.Generate(rng)
	events := a.data.Diff(target, at)
	for i := range events {
		events[i].AgentID = a.id
	}
	a.data = target
	return events
}

// pickWeighted draws one successor with probability proportional to
// its weight. Non-positive weights are unreachable; if no weight is
// positive the draw fails.
func pickWeighted[C comparable](rng *rand.Rand, successors []Successor[C]) (C, bool) {
	var zero C

	var total float64
	for _, s := range successors {
		if s.Weight > 0 && !math.IsInf(s.Weight, 1) && !math.IsNaN(s.Weight) {
			total += s.Weight
		}
	}
	if total <= 0 || math.IsInf(total, 1) {
		return zero, false
	}

	r := rng.Float64() * total
	for _, s := range successors {
		if s.Weight <= 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 1) {
			continue
		}
		r -= s.Weight
		if r < 0 {
			return s.Category, true
		}
	}

	// Floating-point residue can leave r at exactly 0 after the last
	// subtraction; fall back to the last reachable successor.
	for i := len(successors) - 1; i >= 0; i-- {
		if w := successors[i].Weight; w > 0 && !math.IsNaN(w) && !math.IsInf(w, 1) {
			return successors[i].Category, true
		}
	}
	return zero, false
}
