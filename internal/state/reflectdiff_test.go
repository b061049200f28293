package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deviceState struct {
	Connected bool    `state:"connected_status"`
	Sessions  int     `state:"active_sessions"`
	MemoryMB  int     `state:"memory_in_use_mb"`
	CPU       float32 `state:"cpu_in_use_percent"`
	hidden    string
	Skipped   string `state:"-"`
}

func TestDiffFields_ChangedFieldsOnly(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	old := deviceState{Connected: false, Sessions: 0, MemoryMB: 0, hidden: "a", Skipped: "a"}
	new := deviceState{Connected: true, Sessions: 2, MemoryMB: 0, hidden: "b", Skipped: "b"}

	events := DiffFields(old, new, at)
	require.Len(t, events, 2, "unchanged, unexported, and skipped fields must not diff")

	assert.Equal(t, "connected_status", events[0].Field)
	assert.Equal(t, "false", events[0].OldValue)
	assert.Equal(t, "true", events[0].NewValue)
	assert.Equal(t, at, events[0].Time)

	assert.Equal(t, "active_sessions", events[1].Field)
	assert.Equal(t, "0", events[1].OldValue)
	assert.Equal(t, "2", events[1].NewValue)
}

func TestDiffFields_DeclarationOrder(t *testing.T) {
	old := deviceState{}
	new := deviceState{Connected: true, Sessions: 1, MemoryMB: 512, CPU: 3.5}

	events := DiffFields(old, new, time.Now())
	require.Len(t, events, 4)

	fields := make([]string, len(events))
	for i, ev := range events {
		fields[i] = ev.Field
	}
	assert.Equal(t, []string{"connected_status", "active_sessions", "memory_in_use_mb", "cpu_in_use_percent"}, fields)
}

func TestDiffFields_Identical(t *testing.T) {
	s := deviceState{Connected: true, Sessions: 3}
	assert.Empty(t, DiffFields(s, s, time.Now()))
}

func TestDiffFields_PointerArguments(t *testing.T) {
	old := &deviceState{Sessions: 1}
	new := &deviceState{Sessions: 2}

	events := DiffFields(old, new, time.Now())
	require.Len(t, events, 1)
	assert.Equal(t, "active_sessions", events[0].Field)
}

func TestDiffFields_MismatchedTypesPanics(t *testing.T) {
	type other struct{ X int }
	assert.Panics(t, func() {
		DiffFields(deviceState{}, other{}, time.Now())
	})
}

func TestDiffFields_UntaggedFieldUsesGoName(t *testing.T) {
	type plain struct{ Load int }
	events := DiffFields(plain{0}, plain{5}, time.Now())
	require.Len(t, events, 1)
	assert.Equal(t, "Load", events[0].Field)
}

func TestFormatFields(t *testing.T) {
	s := deviceState{Connected: true, Sessions: 2, MemoryMB: 1024, CPU: 12.5}
	got := FormatFields(s)
	assert.Equal(t, "connected_status: true | active_sessions: 2 | memory_in_use_mb: 1024 | cpu_in_use_percent: 12.5", got)
}
