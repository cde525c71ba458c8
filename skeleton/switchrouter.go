package skeleton

import (
	"context"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/rte"
)

// SwitchConfig configures NewSwitch.
type SwitchConfig struct {
	// Name namespaces the switch's elements ("<name>/left", "<name>/right",
	// "<name>/out", "<name>/select").
	Name string
}

// Switch exclusively forwards one of two inputs to a single output. A
// boolean selection flag (true = left, the default) is guarded by one
// exclusive region shared by the control handler and both arrival
// handlers.
//
// The region is held across both the flag read and the conditional output
// write: a control invocation between the two would otherwise route a
// value according to a selection that no longer holds. A value arriving on
// the unselected port is consumed and discarded.
type Switch[T any] struct {
	Left  rte.In[T]
	Right rte.In[T]
	Out   rte.Out[T]

	name   string
	region swcruntime.Region
	left   rte.Cell[bool]
}

// NewSwitch wires a switch onto rt and returns its handle.
func NewSwitch[T any](rt swcruntime.Runtime, cfg SwitchConfig) (*Switch[T], error) {
	if cfg.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "switch needs a name")
	}

	left, err := rte.Require[T](rt, cfg.Name+"/left")
	if err != nil {
		return nil, err
	}
	right, err := rte.Require[T](rt, cfg.Name+"/right")
	if err != nil {
		return nil, err
	}
	out, err := rte.Provide[T](rt, cfg.Name+"/out")
	if err != nil {
		return nil, err
	}

	s := &Switch[T]{
		Left:   left,
		Right:  right,
		Out:    out,
		name:   cfg.Name,
		region: rt.NewRegion(cfg.Name),
		left:   rte.NewCell(rt, cfg.Name+"/selected", true),
	}

	if err := rt.AddRunnable(cfg.Name+"/route-left", s.route(left, true), swcruntime.OnDataReceived(left.Name())); err != nil {
		return nil, err
	}
	if err := rt.AddRunnable(cfg.Name+"/route-right", s.route(right, false), swcruntime.OnDataReceived(right.Name())); err != nil {
		return nil, err
	}

	selectOp := func(v bool) (any, error) {
		return nil, rte.Guard(s.region, func() error {
			s.left.Set(v)
			return nil
		})
	}
	if err := rte.ProvideOp(rt, cfg.Name+"/select", selectOp); err != nil {
		return nil, err
	}

	return s, nil
}

// route returns the arrival handler for one input side. Flag read, input
// read, and conditional output write all happen inside the region bracket.
func (s *Switch[T]) route(in rte.In[T], wantLeft bool) swcruntime.Runnable {
	return func(ctx context.Context) error {
		return rte.Guard(s.region, func() error {
			if s.left.Get() != wantLeft {
				return nil // not selected: consume and discard
			}
			v, err := in.Read()
			if err != nil {
				return err
			}
			return s.Out.Write(v)
		})
	}
}

// SelectOperation returns the name of the provided boolean control
// operation: true selects left, false selects right.
func (s *Switch[T]) SelectOperation() string {
	return s.name + "/select"
}
