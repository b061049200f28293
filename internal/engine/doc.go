// Package engine drives a population of agents through simulated time.
//
// The Simulation owns the agents, the current simulated time, one
// random source, and (in batch mode) the accumulated event log. A
// min-priority queue of "agent i fires at time t" entries is popped in
// time order; each pop applies one transition and reschedules the same
// agent. The whole run executes synchronously inside one call.
//
// For one seed, one agent set, and one end time, the emitted event
// sequence is identical across batch and streaming modes and across
// repeated runs: the queue breaks equal-time ties by agent index, so
// random draws always happen in the same order.
package engine
