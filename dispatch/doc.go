// Package dispatch provides the reference in-process implementation of the
// swcruntime.Runtime collaborator, used by tests and demos.
//
// A Dispatcher owns the registries of ports, operations, and runnables for
// one runtime instance and delivers events to them in a deterministic
// order: every data arrival and operation followup receives a monotonically
// increasing sequence number and is dispatched strictly FIFO, so the order
// in which two ports see "simultaneous" values is an explicit contract, not
// an accident of scheduling.
//
// Two clocks drive periodic runnables:
//
//   - Virtual time: Advance moves the clock forward and fires every due
//     periodic runnable in deadline order, draining the event queue between
//     firings. Tests use this for exact tick accounting.
//   - Wall time: Start spawns a ticker loop that advances virtual time by
//     the configured tick rate on every wall tick, with panic recovery.
//     Demos use this mode.
//
// Initialization runnables all complete before any other runnable of the
// same dispatcher runs, in registration order.
//
// Runnable errors are never fatal: they are counted, logged through the
// configured zap logger (a no-op logger by default), and forwarded to an
// optional error handler.
//
// Operation invocations run on the caller's goroutine, so concurrently
// invoked operations of one component genuinely race; the component's
// exclusive region is what serializes its state, exactly as in a
// preemptive runtime.
package dispatch
