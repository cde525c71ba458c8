package dispatch

import (
	"sync"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
)

// region is a per-instance mutual exclusion region.
type region struct {
	name string
	mu   sync.Mutex
}

func (r *region) Enter() { r.mu.Lock() }
func (r *region) Leave() { r.mu.Unlock() }

// cell is a persistent state cell. Access is unsynchronized on purpose:
// the contract requires callers to hold the owning region.
type cell struct {
	name string
	v    any
}

func (c *cell) Read() any   { return c.v }
func (c *cell) Write(v any) { c.v = v }

// slot is a single-slot, unqueued port. A write overwrites any previously
// unread value; a read returns the latest value or no-value-yet.
type slot struct {
	d    *Dispatcher
	name string
	dir  swcruntime.Direction

	mu  sync.Mutex
	val any
	has bool
}

func (s *slot) Name() string {
	return s.name
}

func (s *slot) Direction() swcruntime.Direction {
	return s.dir
}

func (s *slot) Read() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.has
}

func (s *slot) Write(v any) error {
	if s.dir != swcruntime.Provided {
		return errors.New(errors.PhaseRunnable, errors.KindInvalidInput).
			Element(s.name).
			Detail("only provided ports are writable by the owning component").
			Build()
	}
	s.set(v)
	return s.d.deliver(s.name, v)
}

func (s *slot) set(v any) {
	s.mu.Lock()
	s.val = v
	s.has = true
	s.mu.Unlock()
}

// clientOp is the client handle for a required remote operation. Binding
// is resolved at call time so wiring may happen after construction.
type clientOp struct {
	d    *Dispatcher
	name string
}

func (c *clientOp) Name() string {
	return c.name
}

func (c *clientOp) Invoke(arg any) (any, error) {
	return c.d.serve(c.name, arg)
}
