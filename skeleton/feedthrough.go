package skeleton

import (
	"context"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/rte"
)

// FeedthroughConfig configures NewFeedthrough.
type FeedthroughConfig[A, B any] struct {
	// Name namespaces the ports ("<name>/in", "<name>/out").
	Name string

	// Map transforms each arriving input value. It may be effectful; the
	// runtime dispatches at most one invocation per arrival.
	Map func(A) B

	// Initial is the output port's declared initial value, installed
	// before any event fires.
	Initial B
}

// Feedthrough applies a user function to each newly arrived input value
// and republishes the result. It holds no shared mutable state beyond the
// ports themselves, so no exclusive region is needed.
type Feedthrough[A, B any] struct {
	In  rte.In[A]
	Out rte.Out[B]
}

// NewFeedthrough wires a feedthrough onto rt and returns its handle.
func NewFeedthrough[A, B any](rt swcruntime.Runtime, cfg FeedthroughConfig[A, B]) (*Feedthrough[A, B], error) {
	if cfg.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "feedthrough needs a name")
	}
	if cfg.Map == nil {
		return nil, errors.InvalidInput(errors.PhaseConstruct, "feedthrough needs a mapping function")
	}

	in, err := rte.Require[A](rt, cfg.Name+"/in")
	if err != nil {
		return nil, err
	}
	out, err := rte.Provide(rt, cfg.Name+"/out", cfg.Initial)
	if err != nil {
		return nil, err
	}

	feed := func(ctx context.Context) error {
		v, err := in.Read()
		if err != nil {
			return err
		}
		return out.Write(cfg.Map(v))
	}
	if err := rt.AddRunnable(cfg.Name+"/feed", feed, swcruntime.OnDataReceived(in.Name())); err != nil {
		return nil, err
	}

	return &Feedthrough[A, B]{In: in, Out: out}, nil
}
