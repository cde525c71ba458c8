// Package skeleton provides reusable component skeletons for an
// event-triggered runtime: constructors that take user-supplied step
// functions and wire them into concurrency-correct components.
//
// Each skeleton registers a set of runnables against one swcruntime.Runtime
// and returns a handle naming the ports and operations the caller wires
// into a larger system. Skeletons never call each other.
//
// Four skeletons are provided:
//
//   - Sequencer: a discrete-time-tick state machine producing side effects
//     at programmable step boundaries, externally start/stoppable.
//   - Feedthrough: applies a user function to each newly arrived input
//     value and republishes the result.
//   - Switch: exclusively forwards one of two inputs to a single output,
//     selectable via a control operation.
//   - Trigger: samples a signal at fixed intervals and issues a remote
//     call only on value change.
//
// Every skeleton owns at most one exclusive region and never invokes
// another instance while holding it, so composing skeletons cannot
// deadlock.
package skeleton
