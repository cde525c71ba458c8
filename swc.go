package swcruntime

import (
	"context"
	"time"
)

// Direction of a port relative to the owning component.
type Direction uint8

const (
	// Provided means this component publishes the port.
	Provided Direction = iota
	// Required means this component consumes the port; it is bound
	// externally to some provider.
	Required
)

func (d Direction) String() string {
	switch d {
	case Provided:
		return "provided"
	case Required:
		return "required"
	default:
		return "unknown"
	}
}

// Region is a per-instance mutual exclusion region guarding shared state.
// Leave must be called on every exit path; use rte.Guard for the scoped
// acquire/release bracket.
type Region interface {
	Enter()
	Leave()
}

// Cell is a persistent per-instance state cell surviving across separate
// runnable invocations. Read and Write are only meaningful while holding
// the region associated with the cell.
type Cell interface {
	Read() any
	Write(v any)
}

// Port is a single-slot, unqueued data element.
type Port interface {
	Name() string
	Direction() Direction

	// Write publishes a value. Only valid on Provided ports; the runtime
	// delivers it to any required ports bound to this one.
	Write(v any) error

	// Read returns the most recently written value, or false if nothing
	// has been written yet.
	Read() (any, bool)
}

// Operation is a client handle for a required remote operation. Invoke
// blocks until the bound server handler returns.
type Operation interface {
	Name() string
	Invoke(arg any) (any, error)
}

// Runnable is a unit of logic registered against one or more triggers.
// It runs to completion once dispatched; a returned error is reported to
// the runtime, never propagated across runnables.
type Runnable func(ctx context.Context) error

// OperationHandler serves invocations of a provided remote operation.
type OperationHandler func(arg any) (any, error)

// TriggerKind identifies the event class a runnable is registered against.
type TriggerKind uint8

const (
	// TriggerInit fires exactly once at startup, before any other runnable
	// of the same runtime instance.
	TriggerInit TriggerKind = iota
	// TriggerPeriodic fires every fixed period.
	TriggerPeriodic
	// TriggerDataReceived fires when a named required port receives a value.
	TriggerDataReceived
	// TriggerOperationInvoked fires after a named provided operation has
	// been served.
	TriggerOperationInvoked
)

// Trigger describes one event source for a runnable registration. A single
// runnable may be registered against a list of triggers.
type Trigger struct {
	Kind      TriggerKind
	Period    time.Duration // TriggerPeriodic
	Port      string        // TriggerDataReceived
	Operation string        // TriggerOperationInvoked
}

// OnInit returns an initialization trigger.
func OnInit() Trigger {
	return Trigger{Kind: TriggerInit}
}

// OnPeriodic returns a timing trigger firing every d.
func OnPeriodic(d time.Duration) Trigger {
	return Trigger{Kind: TriggerPeriodic, Period: d}
}

// OnDataReceived returns a data-arrival trigger for the named required port.
func OnDataReceived(port string) Trigger {
	return Trigger{Kind: TriggerDataReceived, Port: port}
}

// OnOperationInvoked returns a trigger firing after the named provided
// operation has been served.
func OnOperationInvoked(op string) Trigger {
	return Trigger{Kind: TriggerOperationInvoked, Operation: op}
}

// Runtime is the narrow interface a runtime collaborator exposes to
// components. Every primitive call site takes this handle explicitly.
//
// Names are global to one runtime instance; components namespace their
// ports and operations with their own name (e.g. "gain/in").
type Runtime interface {
	// NewRegion creates a scoped mutual-exclusion region.
	NewRegion(name string) Region

	// NewCell creates a persistent state cell with an initial value.
	NewCell(name string, initial any) Cell

	// ProvidePort creates a provided port, optionally seeded with a
	// declared initial value.
	ProvidePort(name string, initial ...any) (Port, error)

	// RequirePort creates a required port, bound later by external wiring.
	RequirePort(name string) (Port, error)

	// ProvideOperation registers a server-style remote operation.
	ProvideOperation(name string, h OperationHandler) error

	// RequireOperation creates a client handle for a remote operation,
	// bound later by external wiring.
	RequireOperation(name string) (Operation, error)

	// AddRunnable registers a runnable against a set of triggers.
	AddRunnable(name string, fn Runnable, triggers ...Trigger) error
}
