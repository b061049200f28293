package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMap_Clone_Independent(t *testing.T) {
	m := FieldMap{"status": "idle"}
	c := m.Clone()

	c["status"] = "busy"
	assert.Equal(t, "idle", m["status"], "mutating the clone must not affect the original")
}

func TestFieldMap_Clone_Nil(t *testing.T) {
	var m FieldMap
	c := m.Clone()

	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestFieldMap_Diff_SortedFieldOrder(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := FieldMap{"zeta": "1", "alpha": "1", "mid": "1"}
	new := FieldMap{"zeta": "2", "alpha": "2", "mid": "2"}

	events := old.Diff(new, at)
	require.Len(t, events, 3)
	assert.Equal(t, "alpha", events[0].Field)
	assert.Equal(t, "mid", events[1].Field)
	assert.Equal(t, "zeta", events[2].Field)

	for _, ev := range events {
		assert.Equal(t, at, ev.Time)
		assert.Equal(t, "1", ev.OldValue)
		assert.Equal(t, "2", ev.NewValue)
		assert.Empty(t, ev.AgentID, "diff leaves the agent id for the owner to stamp")
	}
}

func TestFieldMap_Diff_UnionOfKeys(t *testing.T) {
	at := time.Now()
	old := FieldMap{"removed": "x"}
	new := FieldMap{"added": "y"}

	events := old.Diff(new, at)
	require.Len(t, events, 2)

	assert.Equal(t, "added", events[0].Field)
	assert.Equal(t, "", events[0].OldValue)
	assert.Equal(t, "y", events[0].NewValue)

	assert.Equal(t, "removed", events[1].Field)
	assert.Equal(t, "x", events[1].OldValue)
	assert.Equal(t, "", events[1].NewValue)
}

func TestFieldMap_Diff_Identical(t *testing.T) {
	m := FieldMap{"status": "idle", "load": "0"}
	assert.Empty(t, m.Diff(m.Clone(), time.Now()), "identical maps must diff to nothing")
}
