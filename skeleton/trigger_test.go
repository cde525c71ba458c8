package skeleton_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swckit/swc-runtime/dispatch"
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/rte"
	"github.com/swckit/swc-runtime/skeleton"
)

// callSink records the arguments of every remote call it serves.
type callSink struct {
	args []float64
}

func (s *callSink) register(t *testing.T, d *dispatch.Dispatcher, name string) {
	t.Helper()
	require.NoError(t, rte.ProvideOp(d, name, func(v float64) (any, error) {
		s.args = append(s.args, v)
		return nil, nil
	}))
}

func newTrigger(t *testing.T, d *dispatch.Dispatcher) *skeleton.Trigger[float64, float64] {
	t.Helper()
	tr, err := skeleton.NewTrigger(d, skeleton.TriggerConfig[float64, float64]{
		Name:   "watch",
		Period: 10 * time.Millisecond,
		Map:    func(v float64) float64 { return -v },
	})
	require.NoError(t, err)
	return tr
}

func TestTriggerCallsOncePerChange(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	ctx := context.Background()

	snk := &callSink{}
	snk.register(t, d, "sink/print")
	tr := newTrigger(t, d)
	require.NoError(t, d.BindOperation(tr.CallOperation(), "sink/print"))

	require.NoError(t, d.Feed(ctx, tr.In.Name(), 5.0))
	d.Advance(ctx, 10*time.Millisecond)
	assert.Equal(t, []float64{-5}, snk.args)

	// The changed value persisting across samples does not re-trigger.
	d.Advance(ctx, 50*time.Millisecond)
	assert.Equal(t, []float64{-5}, snk.args)

	// Re-delivering the same value is not a change.
	require.NoError(t, d.Feed(ctx, tr.In.Name(), 5.0))
	d.Advance(ctx, 10*time.Millisecond)
	assert.Equal(t, []float64{-5}, snk.args)

	require.NoError(t, d.Feed(ctx, tr.In.Name(), 7.0))
	d.Advance(ctx, 10*time.Millisecond)
	assert.Equal(t, []float64{-5, -7}, snk.args)
}

func TestTriggerInitialValueSuppressesFirstCall(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	ctx := context.Background()

	snk := &callSink{}
	snk.register(t, d, "sink/print")
	tr, err := skeleton.NewTrigger(d, skeleton.TriggerConfig[float64, float64]{
		Name:    "watch",
		Period:  10 * time.Millisecond,
		Map:     func(v float64) float64 { return -v },
		Initial: 5.0,
	})
	require.NoError(t, err)
	require.NoError(t, d.BindOperation(tr.CallOperation(), "sink/print"))

	// Input equals the seeded last-seen value: no change, no call.
	require.NoError(t, d.Feed(ctx, tr.In.Name(), 5.0))
	d.Advance(ctx, 30*time.Millisecond)
	assert.Empty(t, snk.args)
}

func TestTriggerUnwiredInputReportedNotFatal(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	ctx := context.Background()

	var reported []error
	d.SetErrorHandler(func(_ string, err error) {
		reported = append(reported, err)
	})

	snk := &callSink{}
	snk.register(t, d, "sink/print")
	tr := newTrigger(t, d)
	require.NoError(t, d.BindOperation(tr.CallOperation(), "sink/print"))

	d.Advance(ctx, 20*time.Millisecond)

	require.Len(t, reported, 2)
	assert.True(t, errors.IsKind(reported[0], errors.KindNoValue))

	// The component keeps sampling once the input is wired.
	require.NoError(t, d.Feed(ctx, tr.In.Name(), 3.0))
	d.Advance(ctx, 10*time.Millisecond)
	assert.Equal(t, []float64{-3}, snk.args)
}

func TestTriggerUnboundCallRetriedAfterBinding(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	ctx := context.Background()

	var reported []error
	d.SetErrorHandler(func(_ string, err error) {
		reported = append(reported, err)
	})

	snk := &callSink{}
	snk.register(t, d, "sink/print")
	tr := newTrigger(t, d)

	require.NoError(t, d.Feed(ctx, tr.In.Name(), 5.0))
	d.Advance(ctx, 10*time.Millisecond)

	require.Len(t, reported, 1)
	assert.True(t, errors.IsKind(reported[0], errors.KindUnbound))
	assert.Empty(t, snk.args)

	// The failed call left the change pending; binding makes the next
	// sample succeed.
	require.NoError(t, d.BindOperation(tr.CallOperation(), "sink/print"))
	d.Advance(ctx, 10*time.Millisecond)
	assert.Equal(t, []float64{-5}, snk.args)
}

func TestTriggerConstructorValidation(t *testing.T) {
	d := dispatch.New(dispatch.Config{})

	_, err := skeleton.NewTrigger(d, skeleton.TriggerConfig[float64, float64]{
		Period: time.Millisecond,
		Map:    func(v float64) float64 { return v },
	})
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = skeleton.NewTrigger(d, skeleton.TriggerConfig[float64, float64]{
		Name:   "watch",
		Period: time.Millisecond,
	})
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = skeleton.NewTrigger(d, skeleton.TriggerConfig[float64, float64]{
		Name: "watch",
		Map:  func(v float64) float64 { return v },
	})
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
