// Package store persists simulation runs and their event logs in
// SQLite. The simulation core is storage-free; the CLI uses the store
// to keep a run's log around so timelines can be reconstructed later
// without re-running the simulation.
//
// Event order is preserved exactly as produced: reads return events in
// insertion order, which for batch-mode logs is also time order.
package store
