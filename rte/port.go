package rte

import (
	"fmt"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
)

// In is a typed handle for a required port.
type In[T any] struct {
	port swcruntime.Port
}

// Require creates a required port of payload type T. The port is bound to
// a provider by external wiring; until the first delivery, Read returns a
// no-value error.
func Require[T any](rt swcruntime.Runtime, name string) (In[T], error) {
	p, err := rt.RequirePort(name)
	if err != nil {
		return In[T]{}, err
	}
	return In[T]{port: p}, nil
}

// Read returns the most recently delivered value. A read before the first
// delivery is a distinguishable failure, never a silent zero value.
func (in In[T]) Read() (T, error) {
	var zero T
	v, ok := in.port.Read()
	if !ok {
		return zero, errors.NoValue("", in.port.Name())
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseRunnable, in.port.Name(), fmt.Sprintf("%T", zero), v)
	}
	return t, nil
}

// Name returns the port's registered name, used for wiring and triggers.
func (in In[T]) Name() string {
	return in.port.Name()
}

// Out is a typed handle for a provided port.
type Out[T any] struct {
	port swcruntime.Port
}

// Provide creates a provided port of payload type T, optionally seeded
// with a declared initial value installed before any event fires.
func Provide[T any](rt swcruntime.Runtime, name string, initial ...T) (Out[T], error) {
	seed := make([]any, 0, len(initial))
	for _, v := range initial {
		seed = append(seed, v)
	}
	p, err := rt.ProvidePort(name, seed...)
	if err != nil {
		return Out[T]{}, err
	}
	return Out[T]{port: p}, nil
}

// Write publishes a value, overwriting any previously unread one.
func (o Out[T]) Write(v T) error {
	return o.port.Write(v)
}

// Name returns the port's registered name, used for wiring.
func (o Out[T]) Name() string {
	return o.port.Name()
}
