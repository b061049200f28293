package scenario

import (
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/roach88/agsim/internal/agent"
	"github.com/roach88/agsim/internal/state"
)

// Compile validates the definition and builds its agent population.
// Categories compile to a shared agent.Table over FieldMap states;
// each agent receives its own clone.
//
// Compilation is deterministic: successors and fields are ordered by
// name, so a seeded run over a compiled scenario consumes randomness
// in a reproducible order regardless of map iteration.
func Compile(def *Definition, rng *rand.Rand) ([]*agent.Agent[string, state.FieldMap], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	table := make(agent.Table[string, state.FieldMap], len(def.Categories))
	for name, cat := range def.Categories {
		table[name] = agent.Def[string, state.FieldMap]{
			Generate:   compileGenerator(cat.Fields),
			Successors: compileSuccessors(cat.Transitions),
			MeanDwell:  cat.Dwell,
		}
	}

	var agents []*agent.Agent[string, state.FieldMap]
	for i, block := range def.Agents {
		for _, id := range block.expand() {
			ag, err := agent.New(id, block.Start, table, rng)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: agents[%d]: %w", def.Name, i, err)
			}
			agents = append(agents, ag)
		}
	}
	return agents, nil
}

// expand yields the agent IDs a block declares.
func (b AgentBlock) expand() []string {
	if b.ID != "" {
		return []string{b.ID}
	}
	ids := make([]string, 0, b.Count)
	for i := 0; i < b.Count; i++ {
		ids = append(ids, fmt.Sprintf("%s_%03d", b.Prefix, i))
	}
	return ids
}

// compileSuccessors orders the weighted edges by target name so the
// cumulative-weight walk sees them in a fixed sequence.
func compileSuccessors(transitions map[string]float64) []agent.Successor[string] {
	if len(transitions) == 0 {
		return nil
	}
	successors := make([]agent.Successor[string], 0, len(transitions))
	for _, target := range slices.Sorted(maps.Keys(transitions)) {
		successors = append(successors, agent.Successor[string]{
			Category: target,
			Weight:   transitions[target],
		})
	}
	return successors
}

// compileGenerator builds the state factory for a category. Fields
// sample in sorted name order for the same reproducibility reason as
// successors.
func compileGenerator(fields map[string]Field) agent.Generator[state.FieldMap] {
	names := slices.Sorted(maps.Keys(fields))

	canonical := make(map[string]string, len(names))
	for _, name := range names {
		canonical[name] = state.Canonical(name)
	}

	return func(rng *rand.Rand) state.FieldMap {
		m := make(state.FieldMap, len(names))
		for _, name := range names {
			m[canonical[name]] = fields[name].sample(rng)
		}
		return m
	}
}

// sample produces one field value. Validate has already established
// that either Value or a well-formed Min/Max range is present.
func (f Field) sample(rng *rand.Rand) string {
	if f.Value != nil {
		return *f.Value
	}
	v := *f.Min + rng.Float64()*(*f.Max-*f.Min)
	if f.Kind == KindFloat {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatInt(int64(math.Floor(v)), 10)
}
