package rte

import (
	"fmt"

	swcruntime "github.com/swckit/swc-runtime"
	"github.com/swckit/swc-runtime/errors"
)

// Op is a typed client handle for a required remote operation taking A and
// returning R. Use any for R when the result is ignored.
type Op[A, R any] struct {
	op swcruntime.Operation
}

// RequireOp creates a client handle for a remote operation, bound to a
// server by external wiring.
func RequireOp[A, R any](rt swcruntime.Runtime, name string) (Op[A, R], error) {
	op, err := rt.RequireOperation(name)
	if err != nil {
		return Op[A, R]{}, err
	}
	return Op[A, R]{op: op}, nil
}

// Call invokes the bound server with arg and returns its typed result.
// A nil server result maps to the zero value of R.
func (o Op[A, R]) Call(arg A) (R, error) {
	var zero R
	res, err := o.op.Invoke(arg)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	r, ok := res.(R)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseRunnable, o.op.Name(), fmt.Sprintf("%T", zero), res)
	}
	return r, nil
}

// Name returns the operation's registered name, used for binding.
func (o Op[A, R]) Name() string {
	return o.op.Name()
}

// ProvideOp registers a typed server-style operation. Invocations whose
// argument is not an A fail with a type mismatch before fn runs.
func ProvideOp[A, R any](rt swcruntime.Runtime, name string, fn func(A) (R, error)) error {
	return rt.ProvideOperation(name, func(arg any) (any, error) {
		a, ok := arg.(A)
		if !ok {
			var want A
			return nil, errors.TypeMismatch(errors.PhaseDispatch, name, fmt.Sprintf("%T", want), arg)
		}
		return fn(a)
	})
}
