package state

import "time"

// Value is the capability an agent's data type must provide: cloning
// and field-level diffing against another value of the same shape.
//
// Diff returns one ChangeEvent per differing field, stamped with the
// given timestamp and a stable string serialization of each side's
// value. The AgentID is left empty; the agent owning the value fills
// it in when the diff is applied. A field-identical pair diffs to an
// empty slice.
//
// Implementations may be hand-written, generated, or built on the
// helpers in this package (FieldMap, DiffFields).
type Value[S any] interface {
	// Clone returns an independent copy; mutating the copy must not
	// affect the original.
	Clone() S

	// Diff reports the fields on which other differs from the
	// receiver, old values taken from the receiver and new values
	// from other.
	Diff(other S, at time.Time) []ChangeEvent
}
