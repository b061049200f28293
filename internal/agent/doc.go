// Package agent implements the per-agent continuous-time Markov chain:
// a table mapping behavior categories to transition definitions, and an
// Agent that samples its next category, samples its dwell time, and
// applies transitions by regenerating and diffing its state value.
//
// Agents are passive. They never advance time or schedule anything;
// the engine drives them and owns the random source threaded through
// every sampling call.
package agent
