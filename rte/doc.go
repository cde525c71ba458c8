// Package rte provides typed, generic wrappers over the untyped runtime
// primitives in the root package.
//
// The runtime collaborator stores port and cell values as `any`; skeletons
// work with In[T], Out[T], Cell[T], and Op[A, R] instead, so payload types
// are checked once at the wrapper boundary and generic constraints (e.g.
// comparable for change detection) are carried on the constructors that
// need them.
//
// Guard is the scoped critical-section bracket: it acquires a Region,
// defers the release, and runs the supplied function, so the region is
// released on every exit path including early returns and panics.
package rte
