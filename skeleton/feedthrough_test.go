package skeleton_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swckit/swc-runtime/dispatch"
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/skeleton"
)

func TestFeedthroughInitialOutput(t *testing.T) {
	d := dispatch.New(dispatch.Config{})

	ft, err := skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
		Name:    "gain",
		Map:     func(v float64) float64 { return v * 2 },
		Initial: 1.5,
	})
	require.NoError(t, err)

	// The declared initial value is readable before any arrival.
	v, ok := d.Peek(ft.Out.Name())
	require.True(t, ok)
	assert.Equal(t, 1.5, v)
}

func TestFeedthroughMapsEachArrivalOnce(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	ctx := context.Background()

	calls := 0
	ft, err := skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
		Name: "gain",
		Map: func(v float64) float64 {
			calls++
			return v * 2
		},
	})
	require.NoError(t, err)

	require.NoError(t, d.Feed(ctx, ft.In.Name(), 3.0))
	require.NoError(t, d.Feed(ctx, ft.In.Name(), 4.0))
	require.NoError(t, d.Feed(ctx, ft.In.Name(), 5.0))

	assert.Equal(t, 3, calls)
	v, ok := d.Peek(ft.Out.Name())
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func TestFeedthroughChaining(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	ctx := context.Background()

	first, err := skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
		Name: "double",
		Map:  func(v float64) float64 { return v * 2 },
	})
	require.NoError(t, err)
	second, err := skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
		Name: "offset",
		Map:  func(v float64) float64 { return v + 10 },
	})
	require.NoError(t, err)

	require.NoError(t, d.Connect(first.Out.Name(), second.In.Name()))
	require.NoError(t, d.Feed(ctx, first.In.Name(), 5.0))

	v, ok := d.Peek(second.Out.Name())
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
}

func TestFeedthroughConstructorValidation(t *testing.T) {
	d := dispatch.New(dispatch.Config{})

	_, err := skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
		Map: func(v float64) float64 { return v },
	})
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
		Name: "gain",
	})
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
