// Package swcruntime defines the primitive contract between reactive
// software components and the runtime that dispatches events to them.
//
// A component is a set of runnables (event-triggered handlers) sharing
// mutable state through persistent cells, communicating with the rest of
// the system through single-slot ports and remote operations. The runtime
// collaborator delivers timing ticks, data-arrival notifications, and
// operation invocations; this module defines the narrow interface it must
// implement and a library of concurrency-correct component skeletons built
// on top of it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	swc-runtime/         Root package with the Runtime-primitive interfaces
//	├── rte/             Typed, generic wrappers over the untyped primitives
//	├── skeleton/        Reusable component skeletons (Sequencer, Feedthrough, Switch, Trigger)
//	├── dispatch/        Reference in-process dispatcher for tests and demos
//	├── config/          YAML network descriptions wired onto a dispatcher
//	├── errors/          Structured error types for debugging
//	└── cmd/swc-demo/    CLI and interactive TUI demo harness
//
// # Quick Start
//
// Build a component network on the reference dispatcher:
//
//	d := dispatch.New(dispatch.Config{})
//
//	ft, err := skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
//	    Name:    "gain",
//	    Map:     func(v float64) float64 { return v * 2 },
//	    Initial: 0,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d.Feed(ctx, ft.In.Name(), 21.0)
//	out, _ := d.Peek(ft.Out.Name()) // 42.0
//
// # Concurrency Model
//
// Runnables of the same component instance may be dispatched concurrently.
// Each skeleton owns exactly one exclusive Region guarding its persistent
// state; every read that informs a subsequent write happens inside the same
// region bracket as that write. No skeleton ever holds two regions at once
// or calls into another instance while holding its own, so the composition
// cannot deadlock.
//
// # Port Semantics
//
// Ports are single-slot and unqueued: a write overwrites any previously
// unread value, and a read returns the most recently written value or a
// distinguishable no-value-yet result if nothing has been written.
package swcruntime
