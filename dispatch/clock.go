package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/swckit/swc-runtime/errors"
)

// ensureInitLocked runs all initialization runnables exactly once, in
// registration order, then drains any events they produced. No other
// runnable of this dispatcher runs before this completes. Caller holds
// runMu.
func (d *Dispatcher) ensureInitLocked(ctx context.Context) {
	if d.initDone {
		return
	}
	d.initDone = true

	d.mu.RLock()
	inits := d.inits
	d.mu.RUnlock()

	for _, r := range inits {
		d.run(ctx, r)
	}
	d.drainLocked(ctx)
}

// Advance moves virtual time forward by dur, firing every periodic
// runnable that falls due, in deadline order (registration order on equal
// deadlines), and draining the event queue after each firing.
func (d *Dispatcher) Advance(ctx context.Context, dur time.Duration) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.ensureInitLocked(ctx)
	d.drainLocked(ctx)
	d.advanceLocked(ctx, dur)
}

func (d *Dispatcher) advanceLocked(ctx context.Context, dur time.Duration) {
	target := time.Duration(d.now.Load()) + dur
	for {
		due := time.Duration(-1)
		d.mu.RLock()
		for _, p := range d.periodic {
			if p.next <= target && (due < 0 || p.next < due) {
				due = p.next
			}
		}
		entries := d.periodic
		d.mu.RUnlock()

		if due < 0 {
			break
		}
		d.now.Store(int64(due))
		for _, p := range entries {
			if p.next == due {
				d.run(ctx, p.r)
				p.next += p.period
				d.drainLocked(ctx)
			}
		}
	}
	d.now.Store(int64(target))
}

// Now returns the current virtual time. Safe to call from anywhere,
// including inside runnables.
func (d *Dispatcher) Now() time.Duration {
	return time.Duration(d.now.Load())
}

// tickLoop drives virtual time from a wall-clock ticker.
type tickLoop struct {
	ticker  *time.Ticker
	cancel  context.CancelFunc
	stopped chan struct{}
}

// Start begins wall-clock execution: initialization runnables run first,
// then a background loop advances virtual time by the configured tick rate
// on every wall tick. Returns an error if already started.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.runMu.Lock()
	if d.loop != nil {
		d.runMu.Unlock()
		return errors.InvalidInput(errors.PhaseDispatch, "dispatcher already started")
	}
	d.ensureInitLocked(ctx)
	d.drainLocked(ctx)

	loopCtx, cancel := context.WithCancel(ctx)
	loop := &tickLoop{
		ticker:  time.NewTicker(d.tickRate),
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	d.loop = loop
	d.runMu.Unlock()

	d.logger.Info("dispatcher started", zap.Duration("tick_rate", d.tickRate))
	go d.runLoop(loopCtx, loop)
	return nil
}

// Stop gracefully stops the wall-clock loop and waits for it to exit.
func (d *Dispatcher) Stop() error {
	d.runMu.Lock()
	loop := d.loop
	d.loop = nil
	d.runMu.Unlock()

	if loop == nil {
		return nil
	}
	loop.cancel()
	<-loop.stopped
	loop.ticker.Stop()
	d.logger.Info("dispatcher stopped")
	return nil
}

func (d *Dispatcher) runLoop(ctx context.Context, loop *tickLoop) {
	defer close(loop.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-loop.ticker.C:
			d.tickOnce(ctx)
		}
	}
}

// tickOnce advances one tick with panic recovery so a misbehaving handler
// cannot kill the loop.
func (d *Dispatcher) tickOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tick panicked", zap.Any("panic", r))
		}
	}()

	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.drainLocked(ctx)
	d.advanceLocked(ctx, d.tickRate)
}
