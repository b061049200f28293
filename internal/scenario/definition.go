package scenario

import (
	"fmt"
	"math"
)

// Definition is a complete declarative scenario: the category table
// shared by every agent plus the agent population.
type Definition struct {
	// Name identifies the scenario in stored runs.
	Name string `yaml:"name" json:"name"`

	// Description explains what the scenario models.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Categories maps category names to their behavior.
	Categories map[string]Category `yaml:"categories" json:"categories"`

	// Agents declares the population, by explicit ID or prefix+count.
	Agents []AgentBlock `yaml:"agents" json:"agents"`
}

// Category describes one behavior mode.
type Category struct {
	// Dwell is the mean time in seconds an agent stays in this
	// category. Must be positive in a declarative scenario.
	Dwell float64 `yaml:"dwell" json:"dwell"`

	// Transitions weights the successor categories. Empty means the
	// category is terminal.
	Transitions map[string]float64 `yaml:"transitions,omitempty" json:"transitions,omitempty"`

	// Fields defines the state an agent assumes on entering this
	// category, one generator per field.
	Fields map[string]Field `yaml:"fields" json:"fields"`
}

// Field generates one state field's value: either a fixed string or a
// number sampled uniformly from [Min, Max).
type Field struct {
	// Value is a fixed field value. Mutually exclusive with Min/Max.
	Value *string `yaml:"value,omitempty" json:"value,omitempty"`

	// Min and Max bound a uniformly sampled numeric value.
	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`

	// Kind selects the numeric rendering: "int" (default) or "float".
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// AgentBlock declares agents sharing one starting category. Exactly
// one of ID or Prefix+Count must be set; Prefix expands to
// prefix_000, prefix_001, ... up to Count.
type AgentBlock struct {
	ID     string `yaml:"id,omitempty" json:"id,omitempty"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Count  int    `yaml:"count,omitempty" json:"count,omitempty"`
	Start  string `yaml:"start" json:"start"`
}

// Validate checks the definition for configuration bugs. It returns
// the first problem found.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if len(d.Categories) == 0 {
		return fmt.Errorf("scenario %q: no categories defined", d.Name)
	}
	if len(d.Agents) == 0 {
		return fmt.Errorf("scenario %q: no agents defined", d.Name)
	}

	for name, cat := range d.Categories {
		if err := cat.validate(d, name); err != nil {
			return err
		}
	}

	for i, block := range d.Agents {
		if err := block.validate(d, i); err != nil {
			return err
		}
	}
	return nil
}

func (c Category) validate(d *Definition, name string) error {
	if math.IsNaN(c.Dwell) || math.IsInf(c.Dwell, 0) || c.Dwell <= 0 {
		return fmt.Errorf("scenario %q: category %q: dwell must be a positive number of seconds, got %v", d.Name, name, c.Dwell)
	}
	for target, weight := range c.Transitions {
		if _, ok := d.Categories[target]; !ok {
			return fmt.Errorf("scenario %q: category %q: transition to unknown category %q", d.Name, name, target)
		}
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("scenario %q: category %q: transition weight to %q must be non-negative, got %v", d.Name, name, target, weight)
		}
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("scenario %q: category %q: no fields defined", d.Name, name)
	}
	for fieldName, f := range c.Fields {
		if err := f.validate(); err != nil {
			return fmt.Errorf("scenario %q: category %q: field %q: %w", d.Name, name, fieldName, err)
		}
	}
	return nil
}

func (f Field) validate() error {
	hasValue := f.Value != nil
	hasRange := f.Min != nil || f.Max != nil

	switch {
	case hasValue && hasRange:
		return fmt.Errorf("value and min/max are mutually exclusive")
	case hasValue:
		if f.Kind != "" {
			return fmt.Errorf("kind applies only to min/max fields")
		}
		return nil
	case f.Min == nil || f.Max == nil:
		return fmt.Errorf("min and max must both be set")
	}

	if math.IsNaN(*f.Min) || math.IsNaN(*f.Max) || math.IsInf(*f.Min, 0) || math.IsInf(*f.Max, 0) {
		return fmt.Errorf("min/max must be finite")
	}
	if *f.Min >= *f.Max {
		return fmt.Errorf("min %v must be below max %v", *f.Min, *f.Max)
	}
	switch f.Kind {
	case "", KindInt, KindFloat:
		return nil
	default:
		return fmt.Errorf("unknown kind %q (want %q or %q)", f.Kind, KindInt, KindFloat)
	}
}

func (b AgentBlock) validate(d *Definition, index int) error {
	switch {
	case b.ID != "" && (b.Prefix != "" || b.Count != 0):
		return fmt.Errorf("scenario %q: agents[%d]: id and prefix/count are mutually exclusive", d.Name, index)
	case b.ID == "" && b.Prefix == "":
		return fmt.Errorf("scenario %q: agents[%d]: either id or prefix is required", d.Name, index)
	case b.Prefix != "" && b.Count <= 0:
		return fmt.Errorf("scenario %q: agents[%d]: prefix requires a positive count, got %d", d.Name, index, b.Count)
	}
	if _, ok := d.Categories[b.Start]; !ok {
		return fmt.Errorf("scenario %q: agents[%d]: start category %q not defined", d.Name, index, b.Start)
	}
	return nil
}

// Field kind constants.
const (
	KindInt   = "int"
	KindFloat = "float"
)
