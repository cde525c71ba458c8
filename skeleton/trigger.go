package skeleton

import (
	"context"
	"time"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/rte"
)

// TriggerConfig configures NewTrigger.
type TriggerConfig[A comparable, B any] struct {
	// Name namespaces the trigger's elements ("<name>/in", "<name>/call").
	Name string

	// Period is the sampling interval.
	Period time.Duration

	// Map transforms the changed value into the remote call argument.
	Map func(A) B

	// Initial seeds the last-seen cell, so the first sample only calls if
	// the input already differs from it.
	Initial A
}

// Trigger samples its input every period and issues a remote call only on
// value change: at most one call per actual change, independent of how
// many sampling periods the changed value persists. The call's result is
// ignored.
//
// Reading the input before its first delivery is reported as a no-value
// error and treated as "no sample"; the component keeps running.
type Trigger[A comparable, B any] struct {
	In rte.In[A]

	name   string
	call   rte.Op[B, any]
	region swcruntime.Region
	last   rte.Cell[A]
}

// NewTrigger wires a trigger onto rt and returns its handle. The caller
// must bind the required call operation to a provider before the component
// is usable; an unbound call is reported on each missed change and retried
// at the next sample.
func NewTrigger[A comparable, B any](rt swcruntime.Runtime, cfg TriggerConfig[A, B]) (*Trigger[A, B], error) {
	if cfg.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "trigger needs a name")
	}
	if cfg.Map == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "trigger needs a mapping function")
	}
	if cfg.Period <= 0 {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "trigger needs a positive sampling period")
	}

	in, err := rte.Require[A](rt, cfg.Name+"/in")
	if err != nil {
		return nil, err
	}
	call, err := rte.RequireOp[B, any](rt, cfg.Name+"/call")
	if err != nil {
		return nil, err
	}

	t := &Trigger[A, B]{
		In:     in,
		name:   cfg.Name,
		call:   call,
		region: rt.NewRegion(cfg.Name),
		last:   rte.NewCell(rt, cfg.Name+"/last", cfg.Initial),
	}

	if err := rt.AddRunnable(cfg.Name+"/sample", t.sample(cfg.Map), swcruntime.OnPeriodic(cfg.Period)); err != nil {
		return nil, err
	}

	return t, nil
}

// sample compares the current input against the last-seen value under the
// region, but issues the remote call outside it: no runnable may call into
// another instance while holding its own region. The last-seen value is
// only updated after a successful call, so a failed call is retried at the
// next sample instead of losing the change.
func (t *Trigger[A, B]) sample(mapper func(A) B) swcruntime.Runnable {
	return func(ctx context.Context) error {
		var cur A
		changed := false

		if err := rte.Guard(t.region, func() error {
			v, err := t.In.Read()
			if err != nil {
				return err
			}
			cur = v
			changed = v != t.last.Get()
			return nil
		}); err != nil {
			return err
		}
		if !changed {
			return nil
		}

		if _, err := t.call.Call(mapper(cur)); err != nil {
			return err
		}

		return rte.Guard(t.region, func() error {
			t.last.Set(cur)
			return nil
		})
	}
}

// CallOperation returns the name of the required remote operation the
// trigger invokes on change.
func (t *Trigger[A, B]) CallOperation() string {
	return t.name + "/call"
}
