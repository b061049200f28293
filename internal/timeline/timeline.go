// Package timeline replays a flat change-event log into point-in-time
// state snapshots. Reconstruction is a pure function of the log: it
// never touches agents, tables, or the random stream, so it can run on
// a log loaded from storage as well as on one fresh from the engine.
package timeline

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/roach88/agsim/internal/state"
)

// Entry is one reconstructed snapshot: the full known state at a
// timestamp and the fields whose change produced it. The first entry
// of every timeline is synthetic pre-history with an empty Changed
// list.
type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	State     map[string]string `json:"state"`
	Changed   []string          `json:"changed_fields"`
}

// String renders the entry on one line:
//
//	[2026-01-02 15:04:05] State -> [ load: 5 | status: busy ] *(Events: load, status)*
//
// Fields print in sorted order; the synthetic first entry prints
// "Initial State" in place of an event list.
func (e Entry) String() string {
	eventStr := "Initial State"
	if len(e.Changed) > 0 {
		eventStr = "Events: " + strings.Join(e.Changed, ", ")
	}

	parts := make([]string, 0, len(e.State))
	for _, k := range slices.Sorted(maps.Keys(e.State)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.State[k]))
	}

	return fmt.Sprintf("[%s] State -> [ %s ] *(%s)*",
		e.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		strings.Join(parts, " | "),
		eventStr,
	)
}

// Timeline is a monotonically time-ordered sequence of snapshots: one
// synthetic initial entry plus one entry per distinct event timestamp.
type Timeline struct {
	Entries []Entry
}

// String renders every entry on its own line.
func (t Timeline) String() string {
	var b strings.Builder
	for _, e := range t.Entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Generate partitions events by agent and reconstructs one timeline
// per agent. Agents with no events have no timeline.
func Generate(events []state.ChangeEvent) map[string]Timeline {
	timelines := make(map[string]Timeline)
	if len(events) == 0 {
		return timelines
	}

	byAgent := make(map[string][]state.ChangeEvent)
	for _, ev := range events {
		byAgent[ev.AgentID] = append(byAgent[ev.AgentID], ev)
	}

	for id, agentEvents := range byAgent {
		if tl, ok := build(agentEvents); ok {
			timelines[id] = tl
		}
	}
	return timelines
}

// Merged reconstructs a single combined timeline over all agents,
// treating the whole log as one event stream. It reports false when
// the log is empty.
//
// Fields from different agents share one namespace here; merged
// timelines are meant for logs whose agents have disjoint field sets
// or for a caller that pre-filters to one agent.
func Merged(events []state.ChangeEvent) (Timeline, bool) {
	return build(events)
}

// build reconstructs one timeline from one event stream.
func build(events []state.ChangeEvent) (Timeline, bool) {
	if len(events) == 0 {
		return Timeline{}, false
	}

	// Stable sort: input order decides between equal timestamps, which
	// keeps reconstruction deterministic for logs the engine produced
	// (already time-sorted) and for any external log alike.
	sorted := make([]state.ChangeEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	// Pre-history: each field's value before its first recorded
	// change. Only fields that ever changed are reconstructible.
	current := make(map[string]string)
	for _, ev := range sorted {
		if _, seen := current[ev.Field]; !seen {
			current[ev.Field] = ev.OldValue
		}
	}

	entries := []Entry{{
		// One second before the first event, an arbitrary but fixed
		// convention; coalescing by exact timestamp below means it can
		// never collide with a real entry.
		Timestamp: sorted[0].Time.Add(-time.Second),
		State:     maps.Clone(current),
		Changed:   []string{},
	}}

	// Events are sorted, so each timestamp group is contiguous.
	for i := 0; i < len(sorted); {
		ts := sorted[i].Time
		var changed []string
		for i < len(sorted) && sorted[i].Time.Equal(ts) {
			current[sorted[i].Field] = sorted[i].NewValue
			changed = append(changed, sorted[i].Field)
			i++
		}
		entries = append(entries, Entry{
			Timestamp: ts,
			State:     maps.Clone(current),
			Changed:   changed,
		})
	}

	return Timeline{Entries: entries}, true
}
