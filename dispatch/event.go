package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
)

// event is one queued dispatch: a data arrival on a required port or a
// followup after a served operation. Sequence numbers make delivery order
// deterministic and observable.
type event struct {
	seq  uint64
	kind swcruntime.TriggerKind
	name string // port or operation name
}

func (d *Dispatcher) enqueue(kind swcruntime.TriggerKind, name string) error {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	if len(d.queue) >= d.maxPending {
		return errors.QueueFull(d.maxPending)
	}
	d.seq++
	d.queue = append(d.queue, event{seq: d.seq, kind: kind, name: name})
	return nil
}

func (d *Dispatcher) dequeue() (event, bool) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	if len(d.queue) == 0 {
		return event{}, false
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev, true
}

// deliver copies a freshly written provided-port value into every bound
// required port and queues their arrival events.
func (d *Dispatcher) deliver(provided string, v any) error {
	d.mu.RLock()
	targets := d.links[provided]
	d.mu.RUnlock()

	for _, name := range targets {
		d.mu.RLock()
		s := d.ports[name]
		d.mu.RUnlock()
		if s == nil {
			continue
		}
		s.set(v)
		if err := d.enqueue(swcruntime.TriggerDataReceived, name); err != nil {
			return err
		}
	}
	return nil
}

// serve resolves an operation name (following a required-to-provided
// binding if present), runs the server handler on the calling goroutine,
// and queues operation-invoked followups.
func (d *Dispatcher) serve(name string, arg any) (res any, err error) {
	d.mu.RLock()
	h, ok := d.ops[name]
	resolved := name
	if !ok {
		if target, bound := d.opBinds[name]; bound {
			h, ok = d.ops[target]
			resolved = target
		}
	}
	d.mu.RUnlock()

	if !ok {
		return nil, errors.Unbound(errors.PhaseRunnable, "operation", name)
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.PhaseRunnable, errors.KindInvalidInput).
				Element(resolved).
				Detail("operation handler panicked: %v", r).
				Build()
		}
	}()

	res, err = h(arg)

	if qerr := d.enqueue(swcruntime.TriggerOperationInvoked, resolved); qerr != nil {
		d.logger.Warn("operation followup dropped",
			zap.String("operation", resolved),
			zap.Error(qerr))
	}
	return res, err
}

// drainLocked dispatches queued events FIFO until the queue is empty.
// Caller holds runMu.
func (d *Dispatcher) drainLocked(ctx context.Context) {
	for {
		ev, ok := d.dequeue()
		if !ok {
			return
		}

		var targets []*runnable
		d.mu.RLock()
		switch ev.kind {
		case swcruntime.TriggerDataReceived:
			targets = d.byPort[ev.name]
		case swcruntime.TriggerOperationInvoked:
			targets = d.byOp[ev.name]
		}
		d.mu.RUnlock()

		for _, r := range targets {
			d.run(ctx, r)
		}
	}
}

// run executes one runnable to completion with panic recovery. Errors are
// reported, never propagated: handler failures are local to the invocation.
func (d *Dispatcher) run(ctx context.Context, r *runnable) {
	defer func() {
		if rec := recover(); rec != nil {
			d.report(r.name, errors.New(errors.PhaseRunnable, errors.KindInvalidInput).
				Element(r.name).
				Detail("runnable panicked: %v", rec).
				Build())
		}
	}()

	if err := r.fn(ctx); err != nil {
		d.report(r.name, err)
	}
}

func (d *Dispatcher) report(name string, err error) {
	d.errCount.Add(1)
	d.logger.Warn("runnable failed", zap.String("runnable", name), zap.Error(err))
	if fn := d.errHandler.Load(); fn != nil {
		(*fn)(name, err)
	}
}

// String implements fmt.Stringer for debugging.
func (e event) String() string {
	return fmt.Sprintf("event{seq=%d kind=%d name=%s}", e.seq, e.kind, e.name)
}
