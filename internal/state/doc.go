// Package state defines the data contract between simulated agents and
// the event log: the ChangeEvent record, the Value capability that any
// per-agent data type must satisfy, and two ready-made implementations
// (FieldMap for declarative scenarios, DiffFields for typed structs).
//
// The engine never inspects field values itself. It only asks a Value
// to diff itself against a successor and forwards the resulting
// ChangeEvents, so all per-field knowledge lives with the state type.
package state
