package dispatch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
)

// Config configures a Dispatcher.
type Config struct {
	// TickRate is the wall-clock loop resolution (default 1ms). Virtual
	// time advances by this much on every wall tick while started.
	TickRate time.Duration

	// MaxPendingEvents bounds the event queue (default 1024).
	MaxPendingEvents int

	// Logger receives dispatch diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// runnable is one registered handler with its triggers.
type runnable struct {
	name string
	fn   swcruntime.Runnable
}

// periodicEntry tracks the next virtual-time deadline of a timing trigger.
type periodicEntry struct {
	r      *runnable
	period time.Duration
	next   time.Duration
}

// Dispatcher is the reference runtime collaborator. It implements
// swcruntime.Runtime.
type Dispatcher struct {
	id     string
	logger *zap.Logger

	mu        sync.RWMutex
	ports     map[string]*slot
	ops       map[string]swcruntime.OperationHandler
	reqOps    map[string]bool
	opBinds   map[string]string   // required op -> provided op
	links     map[string][]string // provided port -> required ports
	runnables map[string]*runnable
	inits     []*runnable
	byPort    map[string][]*runnable
	byOp      map[string][]*runnable
	periodic  []*periodicEntry

	queueMu    sync.Mutex
	queue      []event
	seq        uint64
	maxPending int

	// runMu serializes the run loop: init, virtual-time advancement, and
	// queue draining. Operation handlers run outside it.
	runMu    sync.Mutex
	initDone bool

	// now is virtual time in nanoseconds, written under runMu, readable
	// from anywhere (including inside runnables).
	now atomic.Int64

	errCount   atomic.Uint64
	errHandler atomic.Pointer[func(runnable string, err error)]

	tickRate time.Duration
	loop     *tickLoop
}

var _ swcruntime.Runtime = (*Dispatcher)(nil)

// New creates a dispatcher.
func New(cfg Config) *Dispatcher {
	if cfg.TickRate == 0 {
		cfg.TickRate = time.Millisecond
	}
	if cfg.MaxPendingEvents == 0 {
		cfg.MaxPendingEvents = 1024
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	return &Dispatcher{
		id:         id,
		logger:     logger.With(zap.String("dispatcher", id[:8])),
		ports:      make(map[string]*slot),
		ops:        make(map[string]swcruntime.OperationHandler),
		reqOps:     make(map[string]bool),
		opBinds:    make(map[string]string),
		links:      make(map[string][]string),
		runnables:  make(map[string]*runnable),
		byPort:     make(map[string][]*runnable),
		byOp:       make(map[string][]*runnable),
		maxPending: cfg.MaxPendingEvents,
		tickRate:   cfg.TickRate,
	}
}

// ID returns the dispatcher's unique identifier, used in log correlation.
func (d *Dispatcher) ID() string {
	return d.id
}

// SetErrorHandler installs a callback invoked with every reported runnable
// error, in addition to logging. Safe to call at any time.
func (d *Dispatcher) SetErrorHandler(fn func(runnable string, err error)) {
	if fn == nil {
		d.errHandler.Store(nil)
		return
	}
	d.errHandler.Store(&fn)
}

// ErrorCount returns the number of runnable errors reported so far.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errCount.Load()
}

//
// swcruntime.Runtime implementation
//

// NewRegion creates a scoped mutual-exclusion region.
func (d *Dispatcher) NewRegion(name string) swcruntime.Region {
	return &region{name: name}
}

// NewCell creates a persistent state cell with an initial value.
func (d *Dispatcher) NewCell(name string, initial any) swcruntime.Cell {
	return &cell{name: name, v: initial}
}

// ProvidePort creates a provided port, optionally seeded with a declared
// initial value. The seed is installed before any event fires and is
// propagated to required ports at Connect time.
func (d *Dispatcher) ProvidePort(name string, initial ...any) (swcruntime.Port, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "port name cannot be empty")
	}
	if len(initial) > 1 {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "at most one initial value")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.ports[name]; exists {
		return nil, errors.DuplicateName(errors.PhaseConstruct, "port", name)
	}

	s := &slot{d: d, name: name, dir: swcruntime.Provided}
	if len(initial) == 1 {
		s.val = initial[0]
		s.has = true
	}
	d.ports[name] = s
	d.logger.Debug("port provided", zap.String("port", name), zap.Bool("seeded", s.has))
	return s, nil
}

// RequirePort creates a required port, bound later by external wiring.
func (d *Dispatcher) RequirePort(name string) (swcruntime.Port, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "port name cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.ports[name]; exists {
		return nil, errors.DuplicateName(errors.PhaseConstruct, "port", name)
	}

	s := &slot{d: d, name: name, dir: swcruntime.Required}
	d.ports[name] = s
	d.logger.Debug("port required", zap.String("port", name))
	return s, nil
}

// ProvideOperation registers a server-style remote operation.
func (d *Dispatcher) ProvideOperation(name string, h swcruntime.OperationHandler) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseConstruct, "operation name cannot be empty")
	}
	if h == nil {
		return errors.InvalidInput(errors.PhaseConstruct, "operation handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.ops[name]; exists {
		return errors.DuplicateName(errors.PhaseConstruct, "operation", name)
	}
	d.ops[name] = h
	d.logger.Debug("operation provided", zap.String("operation", name))
	return nil
}

// RequireOperation creates a client handle for a remote operation. The
// binding to a provider is resolved at call time.
func (d *Dispatcher) RequireOperation(name string) (swcruntime.Operation, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "operation name cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reqOps[name] {
		return nil, errors.DuplicateName(errors.PhaseConstruct, "required operation", name)
	}
	d.reqOps[name] = true
	d.logger.Debug("operation required", zap.String("operation", name))
	return &clientOp{d: d, name: name}, nil
}

// AddRunnable registers a runnable against a set of triggers.
func (d *Dispatcher) AddRunnable(name string, fn swcruntime.Runnable, triggers ...swcruntime.Trigger) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseConstruct, "runnable name cannot be empty")
	}
	if fn == nil {
		return errors.InvalidInput(errors.PhaseConstruct, "runnable cannot be nil")
	}
	if len(triggers) == 0 {
		return errors.InvalidInput(errors.PhaseConstruct, "runnable needs at least one trigger")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.runnables[name]; exists {
		return errors.DuplicateName(errors.PhaseConstruct, "runnable", name)
	}

	r := &runnable{name: name, fn: fn}
	for _, trg := range triggers {
		switch trg.Kind {
		case swcruntime.TriggerInit:
			d.inits = append(d.inits, r)
		case swcruntime.TriggerPeriodic:
			if trg.Period <= 0 {
				return errors.InvalidInput(errors.PhaseConstruct, "periodic trigger needs a positive period")
			}
			d.periodic = append(d.periodic, &periodicEntry{
				r:      r,
				period: trg.Period,
				next:   time.Duration(d.now.Load()) + trg.Period,
			})
		case swcruntime.TriggerDataReceived:
			s, ok := d.ports[trg.Port]
			if !ok {
				return errors.NotFound(errors.PhaseConstruct, "port", trg.Port)
			}
			if s.dir != swcruntime.Required {
				return errors.InvalidInput(errors.PhaseConstruct, "data triggers attach to required ports")
			}
			d.byPort[trg.Port] = append(d.byPort[trg.Port], r)
		case swcruntime.TriggerOperationInvoked:
			if _, ok := d.ops[trg.Operation]; !ok {
				return errors.NotFound(errors.PhaseConstruct, "operation", trg.Operation)
			}
			d.byOp[trg.Operation] = append(d.byOp[trg.Operation], r)
		default:
			return errors.InvalidInput(errors.PhaseConstruct, "unknown trigger kind")
		}
	}
	d.runnables[name] = r
	d.logger.Debug("runnable added",
		zap.String("runnable", name),
		zap.Int("triggers", len(triggers)))
	return nil
}
