package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swckit/swc-runtime/config"
	"github.com/swckit/swc-runtime/dispatch"
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/rte"
	"github.com/swckit/swc-runtime/skeleton"
)

const sampleNetwork = `
components:
  - name: gain
    kind: feedthrough
    map: double
  - name: sel
    kind: switch
  - name: watch
    kind: trigger
    map: negate
    period: 10ms
  - name: seq
    kind: sequencer
    program: counter
    resolution: 2ms
connections:
  - from: gain/out
    to: sel/left
  - from: sel/out
    to: watch/in
bindings:
  - required: watch/call
    provided: sink/print
`

func testRegistry(t *testing.T) *config.Registry {
	t.Helper()
	reg := config.NewRegistry()
	require.NoError(t, reg.RegisterMap("double", func(v float64) float64 { return v * 2 }))
	require.NoError(t, reg.RegisterMap("negate", func(v float64) float64 { return -v }))
	require.NoError(t, reg.RegisterProgram("counter", config.Program{
		Setup: func() skeleton.SequencerState { return skeleton.Stopped{} },
		Step: func(index int) skeleton.SequencerState {
			return skeleton.Running{Ticks: 0, Limit: 5, Index: index + 1}
		},
		Control: func(run bool) skeleton.SequencerState {
			if run {
				return skeleton.Running{Ticks: 0, Limit: 5, Index: 0}
			}
			return skeleton.Stopped{}
		},
	}))
	return reg
}

func TestLoadParsesNetwork(t *testing.T) {
	n, err := config.Load([]byte(sampleNetwork))
	require.NoError(t, err)

	require.Len(t, n.Components, 4)
	assert.Equal(t, "gain", n.Components[0].Name)
	assert.Equal(t, config.KindFeedthrough, n.Components[0].Kind)
	assert.Equal(t, 10*time.Millisecond, n.Components[2].Period.Std())
	assert.Equal(t, 2*time.Millisecond, n.Components[3].Resolution.Std())
	assert.Len(t, n.Connections, 2)
	assert.Len(t, n.Bindings, 1)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty network", `components: []`},
		{"unnamed component", `
components:
  - kind: switch`},
		{"duplicate names", `
components:
  - name: a
    kind: switch
  - name: a
    kind: switch`},
		{"unknown kind", `
components:
  - name: a
    kind: resistor`},
		{"feedthrough without map", `
components:
  - name: a
    kind: feedthrough`},
		{"trigger without period", `
components:
  - name: a
    kind: trigger
    map: negate`},
		{"sequencer without program", `
components:
  - name: a
    kind: sequencer`},
		{"bad duration", `
components:
  - name: a
    kind: trigger
    map: negate
    period: soon`},
		{"incomplete connection", `
components:
  - name: a
    kind: switch
connections:
  - from: a/out`},
		{"incomplete binding", `
components:
  - name: a
    kind: switch
bindings:
  - required: a/call`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t,
				errors.IsKind(err, errors.KindInvalidInput) ||
					errors.IsKind(err, errors.KindDuplicateName))
		})
	}
}

func TestBuildConstructsAndWires(t *testing.T) {
	n, err := config.Load([]byte(sampleNetwork))
	require.NoError(t, err)

	d := dispatch.New(dispatch.Config{})
	ctx := context.Background()

	var calls []float64
	require.NoError(t, rte.ProvideOp(d, "sink/print", func(v float64) (any, error) {
		calls = append(calls, v)
		return nil, nil
	}))

	built, err := n.Build(d, testRegistry(t))
	require.NoError(t, err)
	assert.Len(t, built.Feedthroughs, 1)
	assert.Len(t, built.Switches, 1)
	assert.Len(t, built.Triggers, 1)
	assert.Len(t, built.Sequencers, 1)

	// gain doubles, sel routes left by default, watch negates on change.
	require.NoError(t, d.Feed(ctx, "gain/in", 3.0))
	d.Advance(ctx, 10*time.Millisecond)
	assert.Equal(t, []float64{-6}, calls)

	seq := built.Sequencers["seq"]
	_, err = d.Invoke(ctx, seq.ControlOperation(), true)
	require.NoError(t, err)
	d.Advance(ctx, 10*time.Millisecond)

	st, ok := seq.Snapshot().(skeleton.Running)
	require.True(t, ok)
	assert.Equal(t, 1, st.Index)
}

func TestBuildUnknownMap(t *testing.T) {
	n, err := config.Load([]byte(`
components:
  - name: a
    kind: feedthrough
    map: nowhere
`))
	require.NoError(t, err)

	d := dispatch.New(dispatch.Config{})
	_, err = n.Build(d, testRegistry(t))
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestBuildUnknownBindingTarget(t *testing.T) {
	n, err := config.Load([]byte(`
components:
  - name: watch
    kind: trigger
    map: negate
    period: 10ms
bindings:
  - required: watch/call
    provided: sink/print
`))
	require.NoError(t, err)

	d := dispatch.New(dispatch.Config{})
	_, err = n.Build(d, testRegistry(t))
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := config.NewRegistry()
	require.NoError(t, reg.RegisterMap("f", func(v float64) float64 { return v }))
	err := reg.RegisterMap("f", func(v float64) float64 { return v })
	assert.True(t, errors.IsKind(err, errors.KindDuplicateName))

	p := config.Program{
		Setup:   func() skeleton.SequencerState { return skeleton.Stopped{} },
		Step:    func(int) skeleton.SequencerState { return skeleton.Stopped{} },
		Control: func(bool) skeleton.SequencerState { return skeleton.Stopped{} },
	}
	require.NoError(t, reg.RegisterProgram("p", p))
	err = reg.RegisterProgram("p", p)
	assert.True(t, errors.IsKind(err, errors.KindDuplicateName))

	err = reg.RegisterProgram("q", config.Program{})
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
