package engine

import (
	"container/heap"
	"time"
)

// firing is one pending scheduled transition: agent agentIndex moves
// to category next at time at. Firings live only inside the queue and
// are never exposed.
type firing[C comparable] struct {
	at         time.Time
	agentIndex int
	next       C
}

// fireQueue is a min-heap of pending firings ordered by time, with
// agent index as the tie-break for equal timestamps. The secondary key
// makes pop order (and therefore random draw order) fully
// deterministic; at most one firing per agent is ever queued, so the
// pair is a total order.
type fireQueue[C comparable] struct {
	entries []firing[C]
}

func newFireQueue[C comparable](capacity int) *fireQueue[C] {
	return &fireQueue[C]{entries: make([]firing[C], 0, capacity)}
}

func (q *fireQueue[C]) Len() int { return len(q.entries) }

func (q *fireQueue[C]) Less(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	if !a.at.Equal(b.at) {
		return a.at.Before(b.at)
	}
	return a.agentIndex < b.agentIndex
}

func (q *fireQueue[C]) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}

func (q *fireQueue[C]) Push(x any) {
	q.entries = append(q.entries, x.(firing[C]))
}

func (q *fireQueue[C]) Pop() any {
	n := len(q.entries)
	f := q.entries[n-1]
	q.entries[n-1] = firing[C]{}
	q.entries = q.entries[:n-1]
	return f
}

// push and pop wrap container/heap so callers cannot bypass the heap
// invariants.
func (q *fireQueue[C]) push(f firing[C]) { heap.Push(q, f) }

func (q *fireQueue[C]) pop() firing[C] { return heap.Pop(q).(firing[C]) }
