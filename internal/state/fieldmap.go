package state

import (
	"maps"
	"slices"
	"time"
)

// FieldMap is a string-keyed state value for agents whose shape is not
// known at compile time (e.g. agents compiled from a scenario file).
// A missing key and an empty string are equivalent when diffing.
type FieldMap map[string]string

// Clone returns an independent copy of the map.
func (m FieldMap) Clone() FieldMap {
	if m == nil {
		return FieldMap{}
	}
	return maps.Clone(m)
}

// Diff compares the receiver against other over the union of their
// keys, in sorted key order so repeated diffs of the same pair emit
// events in the same sequence.
func (m FieldMap) Diff(other FieldMap, at time.Time) []ChangeEvent {
	keys := make(map[string]struct{}, len(m)+len(other))
	for k := range m {
		keys[k] = struct{}{}
	}
	for k := range other {
		keys[k] = struct{}{}
	}

	var events []ChangeEvent
	for _, k := range slices.Sorted(maps.Keys(keys)) {
		oldVal, newVal := m[k], other[k]
		if oldVal == newVal {
			continue
		}
		events = append(events, ChangeEvent{
			Time:     at,
			Field:    k,
			OldValue: oldVal,
			NewValue: newVal,
		})
	}
	return events
}
