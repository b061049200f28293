package scenario

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/agsim/internal/state"
	"github.com/roach88/agsim/internal/testutil"
)

func rangeDefinition() *Definition {
	return &Definition{
		Name: "load",
		Categories: map[string]Category{
			"busy": {
				Dwell:       30,
				Transitions: map[string]float64{"busy": 1.0},
				Fields: map[string]Field{
					"sessions": {Min: f64Ptr(1), Max: f64Ptr(10)},
					"cpu_pct":  {Min: f64Ptr(0), Max: f64Ptr(100), Kind: KindFloat},
					"status":   {Value: strPtr("busy")},
				},
			},
		},
		Agents: []AgentBlock{{Prefix: "node", Count: 4, Start: "busy"}},
	}
}

func TestCompile_ExpandsPopulation(t *testing.T) {
	agents, err := Compile(rangeDefinition(), testutil.Rand(1))
	require.NoError(t, err)
	require.Len(t, agents, 4)

	for i, ag := range agents {
		assert.Equal(t, "node_00"+strconv.Itoa(i), ag.ID())
		assert.Equal(t, "busy", ag.Category())
	}
}

func TestCompile_InvalidDefinitionFails(t *testing.T) {
	def := rangeDefinition()
	def.Name = ""

	_, err := Compile(def, testutil.Rand(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestCompile_InitialStateFromFields(t *testing.T) {
	agents, err := Compile(rangeDefinition(), testutil.Rand(7))
	require.NoError(t, err)

	for _, ag := range agents {
		st := ag.State()
		require.Len(t, st, 3)
		assert.Equal(t, "busy", st["status"])

		sessions, err := strconv.ParseInt(st["sessions"], 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sessions, int64(1))
		assert.Less(t, sessions, int64(10))

		cpu, err := strconv.ParseFloat(st["cpu_pct"], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cpu, 0.0)
		assert.Less(t, cpu, 100.0)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	build := func() []state.FieldMap {
		agents, err := Compile(rangeDefinition(), testutil.Rand(42))
		require.NoError(t, err)
		states := make([]state.FieldMap, 0, len(agents))
		for _, ag := range agents {
			states = append(states, ag.State())
		}
		return states
	}

	assert.Equal(t, build(), build(), "same seed must sample identical initial states")
}

func TestField_Sample(t *testing.T) {
	rng := testutil.Rand(3)

	fixed := Field{Value: strPtr("idle")}
	assert.Equal(t, "idle", fixed.sample(rng))

	intField := Field{Min: f64Ptr(5), Max: f64Ptr(6)}
	assert.Equal(t, "5", intField.sample(rng), "a unit-wide int range always floors to min")

	floatField := Field{Min: f64Ptr(0), Max: f64Ptr(1), Kind: KindFloat}
	v, err := strconv.ParseFloat(floatField.sample(rng), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestCompileSuccessors_SortedByTarget(t *testing.T) {
	successors := compileSuccessors(map[string]float64{
		"zeta":  1.0,
		"alpha": 2.0,
		"mid":   3.0,
	})

	require.Len(t, successors, 3)
	assert.Equal(t, "alpha", successors[0].Category)
	assert.Equal(t, "mid", successors[1].Category)
	assert.Equal(t, "zeta", successors[2].Category)
	assert.Equal(t, 2.0, successors[0].Weight)

	assert.Nil(t, compileSuccessors(nil))
}
