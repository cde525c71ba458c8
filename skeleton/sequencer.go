package skeleton

import (
	"context"
	"fmt"
	"time"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/rte"
)

// SequencerState is the tagged state of a Sequencer: Stopped or Running.
// The variant set is sealed; consumers switch on the concrete type and
// treat any other value as a defect.
type SequencerState interface {
	sequencerState()
}

// Stopped is the idle state: periodic firings are no-ops.
type Stopped struct{}

func (Stopped) sequencerState() {}

// Running counts ticks toward the next step boundary.
//
// Invariant, maintained cooperatively by the user-supplied step function:
// Ticks < Limit immediately after every periodic update. The skeleton does
// not clamp a violating state; it keeps it and reports a structured
// invariant error (see SequencerConfig.Step).
type Running struct {
	// Ticks elapsed since the last step boundary, 0 <= Ticks.
	Ticks int
	// Limit is the boundary in ticks, > 0.
	Limit int
	// Index identifies the current step, passed to the step function.
	Index int
}

func (Running) sequencerState() {}

// SetupFunc produces the initial state. It runs exactly once at
// initialization, before any other runnable of the sequencer.
type SetupFunc func() SequencerState

// StepFunc is invoked at each step boundary with the current index and
// decides the next state: the next Running step, or Stopped.
type StepFunc func(index int) SequencerState

// ControlFunc maps a boolean control input to a new state. How "start" and
// "stop" behave (e.g. start-with-resync) is entirely the controller's
// choice; the skeleton is agnostic.
type ControlFunc func(run bool) SequencerState

// SequencerConfig configures NewSequencer.
type SequencerConfig struct {
	// Name namespaces the sequencer's elements ("<name>/control", ...).
	Name string

	// Resolution is the periodic firing interval. Default 1ms.
	Resolution time.Duration

	Setup   SetupFunc
	Step    StepFunc
	Control ControlFunc
}

// Sequencer is a discrete-time-tick state machine. A periodic runnable
// counts ticks while Running and invokes the step function at each
// boundary; a provided boolean operation routes through the controller.
// All state transitions happen under one exclusive region.
type Sequencer struct {
	name   string
	region swcruntime.Region
	state  rte.Cell[SequencerState]
}

// NewSequencer wires a sequencer onto rt and returns its handle.
func NewSequencer(rt swcruntime.Runtime, cfg SequencerConfig) (*Sequencer, error) {
	if cfg.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "sequencer needs a name")
	}
	if cfg.Setup == nil || cfg.Step == nil || cfg.Control == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "sequencer needs setup, step, and control functions")
	}
	if cfg.Resolution == 0 {
		cfg.Resolution = time.Millisecond
	}

	s := &Sequencer{
		name:   cfg.Name,
		region: rt.NewRegion(cfg.Name),
		state:  rte.NewCell[SequencerState](rt, cfg.Name+"/state", Stopped{}),
	}

	setup := func(ctx context.Context) error {
		return rte.Guard(s.region, func() error {
			s.state.Set(cfg.Setup())
			return nil
		})
	}
	if err := rt.AddRunnable(cfg.Name+"/setup", setup, swcruntime.OnInit()); err != nil {
		return nil, err
	}

	if err := rt.AddRunnable(cfg.Name+"/tick", s.tick(cfg.Step), swcruntime.OnPeriodic(cfg.Resolution)); err != nil {
		return nil, err
	}

	control := func(run bool) (any, error) {
		var err error
		gerr := rte.Guard(s.region, func() error {
			next := cfg.Control(run)
			s.state.Set(next)
			err = s.checkInvariant(next)
			return nil
		})
		if gerr != nil {
			return nil, gerr
		}
		return nil, err
	}
	if err := rte.ProvideOp(rt, cfg.Name+"/control", control); err != nil {
		return nil, err
	}

	return s, nil
}

// tick fires every resolution interval. While Running it increments the
// tick count up to the boundary; at the boundary it hands control to the
// step function, whose result replaces the state wholesale.
func (s *Sequencer) tick(step StepFunc) swcruntime.Runnable {
	return func(ctx context.Context) error {
		return rte.Guard(s.region, func() error {
			switch st := s.state.Get().(type) {
			case Stopped:
				return nil
			case Running:
				if st.Ticks+1 < st.Limit {
					st.Ticks++
					s.state.Set(st)
					return nil
				}
				next := step(st.Index)
				s.state.Set(next)
				return s.checkInvariant(next)
			default:
				return errors.New(errors.PhaseRunnable, errors.KindInvalidInput).
					Component(s.name).
					Detail("unknown sequencer state variant %T", st).
					Build()
			}
		})
	}
}

// checkInvariant reports a Running state that violates ticks < limit. The
// state is kept as returned: the violation is surfaced, not clamped.
func (s *Sequencer) checkInvariant(st SequencerState) error {
	r, ok := st.(Running)
	if !ok {
		return nil
	}
	if r.Limit <= 0 || r.Ticks < 0 || r.Ticks >= r.Limit {
		return errors.Invariant(s.name, fmt.Sprintf("ticks=%d limit=%d", r.Ticks, r.Limit))
	}
	return nil
}

// ControlOperation returns the name of the provided boolean operation used
// to start and stop the sequencer.
func (s *Sequencer) ControlOperation() string {
	return s.name + "/control"
}

// Snapshot returns the current state, read under the exclusive region.
func (s *Sequencer) Snapshot() SequencerState {
	var st SequencerState
	_ = rte.Guard(s.region, func() error {
		st = s.state.Get()
		return nil
	})
	return st
}
