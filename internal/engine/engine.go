package engine

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/roach88/agsim/internal/agent"
	"github.com/roach88/agsim/internal/state"
	"github.com/roach88/agsim/internal/timeline"
)

// Handler receives events as they are produced in streaming mode. It
// is invoked synchronously from the run loop and may block or perform
// I/O; the engine itself never does.
type Handler func(state.ChangeEvent)

// Simulation owns a set of agents and advances them through simulated
// time. One Simulation serves one agent population; runs may be issued
// back to back and continue from the time the previous run ended.
//
// All mutation happens inside Run/RunStream on the calling goroutine.
// A Simulation is not safe for concurrent use.
type Simulation[C comparable, S state.Value[S]] struct {
	agents []*agent.Agent[C, S]
	now    time.Time
	events []state.ChangeEvent
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a Simulation at construction time.
type Option[C comparable, S state.Value[S]] func(*Simulation[C, S])

// WithLogger directs engine logging to the given logger instead of
// slog.Default().
func WithLogger[C comparable, S state.Value[S]](l *slog.Logger) Option[C, S] {
	return func(s *Simulation[C, S]) {
		s.logger = l
	}
}

// New creates a Simulation over the given agents, starting at start.
//
// The random source is owned exclusively by the simulation from here
// on: every category draw and dwell sample for every agent consumes
// from this single stream, in queue-pop order. Reusing the source
// elsewhere during a run forfeits reproducibility.
func New[C comparable, S state.Value[S]](agents []*agent.Agent[C, S], start time.Time, rng *rand.Rand, opts ...Option[C, S]) *Simulation[C, S] {
	s := &Simulation[C, S]{
		agents: agents,
		now:    start.UTC(),
		rng:    rng,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current simulated time.
func (s *Simulation[C, S]) Now() time.Time { return s.now }

// Events returns a copy of the accumulated batch-mode event log.
func (s *Simulation[C, S]) Events() []state.ChangeEvent {
	out := make([]state.ChangeEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Run simulates the given duration, accumulating every change event
// in the in-memory log, and returns a copy of the full log (including
// events from earlier runs). The returned slice is non-decreasing in
// event time.
//
// A non-positive duration produces no events and leaves the
// simulation untouched.
func (s *Simulation[C, S]) Run(d time.Duration) []state.ChangeEvent {
	s.run(d, func(ev state.ChangeEvent) {
		s.events = append(s.events, ev)
	})
	return s.Events()
}

// RunStream simulates the given duration, handing each change event
// to handler as it is produced and retaining nothing. Intended for
// long runs where the full log would be memory-prohibitive.
//
// For the same seed, agents, start, and duration, the handler sees
// exactly the sequence Run would have returned.
func (s *Simulation[C, S]) RunStream(d time.Duration, handler Handler) {
	s.run(d, handler)
}

// run is the single scheduler loop shared by both output modes.
func (s *Simulation[C, S]) run(d time.Duration, emit Handler) {
	if d <= 0 {
		return
	}

	end := s.now.Add(d)
	queue := newFireQueue[C](len(s.agents))

	s.logger.Info("simulation starting",
		"agents", len(s.agents),
		"from", s.now,
		"until", end,
	)

	// Seed the queue with every agent's first firing.
	for i := range s.agents {
		s.scheduleNext(i, queue)
	}

	produced := 0
	for queue.Len() > 0 {
		f := queue.pop()

		// Firings past the end boundary are discarded, not deferred:
		// a later Run resamples from the then-current categories.
		if f.at.After(end) {
			break
		}

		s.now = f.at
		for _, ev := range s.agents[f.agentIndex].Apply(f.next, s.now, s.rng) {
			emit(ev)
			produced++
		}
		s.scheduleNext(f.agentIndex, queue)
	}

	s.logger.Info("simulation finished",
		"events", produced,
		"now", s.now,
	)
}

// scheduleNext samples agent i's next firing and queues it. Sampling
// order matters for reproducibility: dwell delay first, successor
// category second. An agent with no valid dwell or no reachable
// successor is simply not rescheduled and falls silent; one agent's
// exhaustion never affects another's schedule.
func (s *Simulation[C, S]) scheduleNext(i int, queue *fireQueue[C]) {
	ag := s.agents[i]

	delay, ok := ag.PeekDelay(s.rng)
	if !ok {
		s.logger.Debug("agent dormant: no dwell definition", "agent", ag.ID())
		return
	}
	next, ok := ag.Step(s.rng)
	if !ok {
		s.logger.Debug("agent dormant: no reachable successor", "agent", ag.ID())
		return
	}

	queue.push(firing[C]{
		at:         s.now.Add(secondsToDelta(delay)),
		agentIndex: i,
		next:       next,
	})
}

// Timelines reconstructs per-agent timelines from the accumulated
// batch-mode log.
func (s *Simulation[C, S]) Timelines() map[string]timeline.Timeline {
	return timeline.Generate(s.events)
}

// MasterTimeline reconstructs one combined timeline over all agents
// from the accumulated batch-mode log. It reports false when the log
// is empty.
func (s *Simulation[C, S]) MasterTimeline() (timeline.Timeline, bool) {
	return timeline.Merged(s.events)
}

// secondsToDelta converts a sampled delay in seconds to a discrete
// time delta, rounding to the nearest millisecond. The rounding bounds
// the scheduler's resolution to 1ms; two delays less than 0.5ms apart
// can land on the same tick.
func secondsToDelta(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond
}
