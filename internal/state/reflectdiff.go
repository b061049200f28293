package state

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// DiffFields diffs two values of the same struct type field by field,
// returning one ChangeEvent per exported field whose stringified value
// differs. Old values come from old, new values from new. Fields are
// visited in declaration order, so event order is stable for a given
// type.
//
// A field is named by its `state:"..."` tag when present, otherwise by
// its Go name. Fields tagged `state:"-"` are skipped. Values are
// serialized with fmt.Sprint, which covers the numeric, boolean, and
// string fields a typed agent state is made of.
//
// Typed states satisfy Value by delegating to this function:
//
//	type DeviceState struct {
//	    Connected bool   `state:"connected_status"`
//	    Sessions  uint32 `state:"active_sessions"`
//	}
//
//	func (s DeviceState) Clone() DeviceState { return s }
//	func (s DeviceState) Diff(other DeviceState, at time.Time) []ChangeEvent {
//	    return DiffFields(s, other, at)
//	}
//
// DiffFields panics if old and new are not structs of the same type;
// that is a programming error on the caller's side, not a run-time
// condition.
func DiffFields(old, new any, at time.Time) []ChangeEvent {
	ov := structValue(old)
	nv := structValue(new)
	if ov.Type() != nv.Type() {
		panic(fmt.Sprintf("state: DiffFields on mismatched types %s and %s", ov.Type(), nv.Type()))
	}

	var events []ChangeEvent
	for _, f := range reflect.VisibleFields(ov.Type()) {
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		oldStr := fmt.Sprint(ov.FieldByIndex(f.Index).Interface())
		newStr := fmt.Sprint(nv.FieldByIndex(f.Index).Interface())
		if oldStr == newStr {
			continue
		}
		events = append(events, ChangeEvent{
			Time:     at,
			Field:    name,
			OldValue: oldStr,
			NewValue: newStr,
		})
	}
	return events
}

// FormatFields renders a struct state as "field: value | field: value"
// in declaration order, the same one-line form timeline entries use.
func FormatFields(v any) string {
	sv := structValue(v)

	var parts []string
	for _, f := range reflect.VisibleFields(sv.Type()) {
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", name, sv.FieldByIndex(f.Index).Interface()))
	}
	return strings.Join(parts, " | ")
}

func structValue(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("state: expected struct, got %s", rv.Kind()))
	}
	return rv
}

// fieldName resolves the log name for a struct field. Unexported and
// embedded struct fields are excluded; promoted fields of embedded
// structs are reached through VisibleFields and keep their own names.
func fieldName(f reflect.StructField) (string, bool) {
	if f.PkgPath != "" || f.Anonymous {
		return "", false
	}
	tag := f.Tag.Get("state")
	switch tag {
	case "-":
		return "", false
	case "":
		return Canonical(f.Name), true
	default:
		return Canonical(tag), true
	}
}
