package dispatch

import (
	"context"

	"go.uber.org/zap"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
)

// Connect binds a provided port to a required port. Fan-out is allowed:
// one provided port may feed any number of required ports. If the provided
// port carries a declared initial value, it is copied to the required port
// immediately, without raising a data-arrival event.
func (d *Dispatcher) Connect(provided, required string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	from, ok := d.ports[provided]
	if !ok {
		return errors.NotFound(errors.PhaseWiring, "port", provided)
	}
	if from.dir != swcruntime.Provided {
		return errors.InvalidInput(errors.PhaseWiring, "connection source must be a provided port")
	}
	to, ok := d.ports[required]
	if !ok {
		return errors.NotFound(errors.PhaseWiring, "port", required)
	}
	if to.dir != swcruntime.Required {
		return errors.InvalidInput(errors.PhaseWiring, "connection target must be a required port")
	}

	d.links[provided] = append(d.links[provided], required)

	if v, has := from.Read(); has {
		to.set(v)
	}
	d.logger.Debug("ports connected",
		zap.String("from", provided),
		zap.String("to", required))
	return nil
}

// BindOperation binds a required operation to a provided one, making the
// component holding the client handle able to call it.
func (d *Dispatcher) BindOperation(required, provided string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.reqOps[required] {
		return errors.NotFound(errors.PhaseWiring, "required operation", required)
	}
	if _, ok := d.ops[provided]; !ok {
		return errors.NotFound(errors.PhaseWiring, "provided operation", provided)
	}

	d.opBinds[required] = provided
	d.logger.Debug("operation bound",
		zap.String("required", required),
		zap.String("provided", provided))
	return nil
}

// Feed acts as an external provider writing a value into a required port:
// the value lands in the port's slot, a data-arrival event is queued, and
// the queue is drained to quiescence before Feed returns.
func (d *Dispatcher) Feed(ctx context.Context, port string, v any) error {
	d.mu.RLock()
	s, ok := d.ports[port]
	d.mu.RUnlock()

	if !ok {
		return errors.NotFound(errors.PhaseWiring, "port", port)
	}
	if s.dir != swcruntime.Required {
		return errors.InvalidInput(errors.PhaseWiring, "feed targets required ports; provided ports are written by their component")
	}

	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.ensureInitLocked(ctx)
	s.set(v)
	if err := d.enqueue(swcruntime.TriggerDataReceived, port); err != nil {
		return err
	}
	d.drainLocked(ctx)
	return nil
}

// Invoke calls a provided operation (or a required operation bound to
// one) as an external client. The handler runs on the calling goroutine,
// so concurrent Invoke calls genuinely race; component regions serialize
// their state. Followup events are drained before Invoke returns.
func (d *Dispatcher) Invoke(ctx context.Context, name string, arg any) (any, error) {
	d.runMu.Lock()
	d.ensureInitLocked(ctx)
	d.runMu.Unlock()

	res, err := d.serve(name, arg)

	d.runMu.Lock()
	d.drainLocked(ctx)
	d.runMu.Unlock()
	return res, err
}

// Peek reads the current value of any port without consuming anything.
func (d *Dispatcher) Peek(port string) (any, bool) {
	d.mu.RLock()
	s, ok := d.ports[port]
	d.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return s.Read()
}

// Ports returns the names of all registered ports, for inspection.
func (d *Dispatcher) Ports() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.ports))
	for name := range d.ports {
		names = append(names, name)
	}
	return names
}

// Operations returns the names of all provided operations, for inspection.
func (d *Dispatcher) Operations() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.ops))
	for name := range d.ops {
		names = append(names, name)
	}
	return names
}
