package agent

import (
	"maps"
	"math/rand/v2"

	"github.com/roach88/agsim/internal/state"
)

// Generator produces a fresh state value for a category, optionally
// consuming randomness (e.g. to sample a load figure within a range).
type Generator[S any] func(rng *rand.Rand) S

// Successor is one weighted outgoing edge of a category.
type Successor[C comparable] struct {
	Category C
	Weight   float64
}

// Def specifies the behavior of one category: the state it generates
// on entry, the weighted categories it can move to, and how long an
// agent dwells in it on average.
//
// Weights are proportional, not normalized; they need not sum to 1.
// Zero and negative weights make a successor unreachable. An empty
// successor list marks the category as terminal: an agent that reaches
// it produces no further events.
type Def[C comparable, S state.Value[S]] struct {
	// Generate builds the state an agent assumes on entering the
	// category. Required for the initial category; elsewhere a nil
	// generator makes the transition a silent category switch.
	Generate Generator[S]

	// Successors are the weighted outgoing edges, drawn proportionally.
	Successors []Successor[C]

	// MeanDwell is the mean time in seconds an agent stays in this
	// category. Dwell times are sampled from an exponential
	// distribution with this mean. Zero or negative means the agent
	// leaves the instant it arrives.
	MeanDwell float64
}

// Table maps every category an agent can reach to its definition.
// Each agent owns its table; sharing one definition set across agents
// is done by cloning.
type Table[C comparable, S state.Value[S]] map[C]Def[C, S]

// Clone returns a shallow copy of the table. Definitions are value
// types, so agents can hold independent tables built from one source.
func (t Table[C, S]) Clone() Table[C, S] {
	return maps.Clone(t)
}
