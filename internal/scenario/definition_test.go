package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string    { return &s }
func f64Ptr(f float64) *float64 { return &f }

// validDefinition returns a minimal two-category scenario that passes
// validation; tests mutate copies of it to trigger specific errors.
func validDefinition() *Definition {
	return &Definition{
		Name: "flip",
		Categories: map[string]Category{
			"a": {
				Dwell:       60,
				Transitions: map[string]float64{"b": 1.0},
				Fields:      map[string]Field{"val": {Value: strPtr("A")}},
			},
			"b": {
				Dwell:       120,
				Transitions: map[string]float64{"a": 1.0},
				Fields:      map[string]Field{"val": {Value: strPtr("B")}},
			},
		},
		Agents: []AgentBlock{{ID: "ag1", Start: "a"}},
	}
}

func TestDefinition_Validate_OK(t *testing.T) {
	require.NoError(t, validDefinition().Validate())
}

func TestDefinition_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Definition)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(d *Definition) { d.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "no categories",
			mutate:  func(d *Definition) { d.Categories = nil },
			wantErr: "no categories",
		},
		{
			name:    "no agents",
			mutate:  func(d *Definition) { d.Agents = nil },
			wantErr: "no agents",
		},
		{
			name: "zero dwell",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Dwell = 0
				d.Categories["a"] = c
			},
			wantErr: "dwell must be a positive",
		},
		{
			name: "transition to unknown category",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Transitions = map[string]float64{"ghost": 1.0}
				d.Categories["a"] = c
			},
			wantErr: "unknown category",
		},
		{
			name: "negative weight",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Transitions = map[string]float64{"b": -1.0}
				d.Categories["a"] = c
			},
			wantErr: "must be non-negative",
		},
		{
			name: "no fields",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Fields = nil
				d.Categories["a"] = c
			},
			wantErr: "no fields",
		},
		{
			name: "field with value and range",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Fields = map[string]Field{"val": {Value: strPtr("A"), Min: f64Ptr(1), Max: f64Ptr(2)}}
				d.Categories["a"] = c
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "field with only min",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Fields = map[string]Field{"val": {Min: f64Ptr(1)}}
				d.Categories["a"] = c
			},
			wantErr: "min and max must both be set",
		},
		{
			name: "inverted range",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Fields = map[string]Field{"val": {Min: f64Ptr(5), Max: f64Ptr(1)}}
				d.Categories["a"] = c
			},
			wantErr: "must be below",
		},
		{
			name: "bad kind",
			mutate: func(d *Definition) {
				c := d.Categories["a"]
				c.Fields = map[string]Field{"val": {Min: f64Ptr(1), Max: f64Ptr(2), Kind: "hex"}}
				d.Categories["a"] = c
			},
			wantErr: "unknown kind",
		},
		{
			name:    "agent id and prefix",
			mutate:  func(d *Definition) { d.Agents = []AgentBlock{{ID: "x", Prefix: "y", Count: 2, Start: "a"}} },
			wantErr: "mutually exclusive",
		},
		{
			name:    "agent without id or prefix",
			mutate:  func(d *Definition) { d.Agents = []AgentBlock{{Start: "a"}} },
			wantErr: "either id or prefix",
		},
		{
			name:    "prefix without count",
			mutate:  func(d *Definition) { d.Agents = []AgentBlock{{Prefix: "dev", Start: "a"}} },
			wantErr: "positive count",
		},
		{
			name:    "unknown start category",
			mutate:  func(d *Definition) { d.Agents = []AgentBlock{{ID: "x", Start: "ghost"}} },
			wantErr: "start category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)
			err := def.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAgentBlock_Expand(t *testing.T) {
	assert.Equal(t, []string{"solo"}, AgentBlock{ID: "solo"}.expand())
	assert.Equal(t,
		[]string{"dev_000", "dev_001", "dev_002"},
		AgentBlock{Prefix: "dev", Count: 3}.expand())
}
