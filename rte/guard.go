package rte

import (
	swcruntime "github.com/swckit/swc-runtime"
)

// Guard runs fn inside the acquisition/release bracket of r. The region is
// released on every exit path, including error returns and panics, so a
// failing handler can never lock out the rest of its instance.
func Guard(r swcruntime.Region, fn func() error) error {
	r.Enter()
	defer r.Leave()
	return fn()
}
