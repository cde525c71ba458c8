package rte

import (
	swcruntime "github.com/swckit/swc-runtime"
)

// Cell is a typed persistent state cell shared by the runnables of one
// component instance. Get and Set are only meaningful while holding the
// instance's Region; wrap every access in Guard.
type Cell[T any] struct {
	cell swcruntime.Cell
}

// NewCell creates a typed state cell with an initial value.
func NewCell[T any](rt swcruntime.Runtime, name string, initial T) Cell[T] {
	return Cell[T]{cell: rt.NewCell(name, initial)}
}

// Get returns the current value. Caller must hold the owning region.
func (c Cell[T]) Get() T {
	return c.cell.Read().(T)
}

// Set replaces the current value. Caller must hold the owning region.
func (c Cell[T]) Set(v T) {
	c.cell.Write(v)
}
