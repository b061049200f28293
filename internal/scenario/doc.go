// Package scenario loads declarative simulation definitions and
// compiles them into agents. A definition names the behavior
// categories (mean dwell, weighted transitions, field generators) and
// the agent population; it can be written as a single YAML file or as
// a CUE file or package.
//
// Compilation is fail-fast: a start category missing from the table,
// a transition to an unknown category, a negative weight, or a
// non-positive dwell is a configuration bug and is rejected before
// any simulation begins.
package scenario
