package config

import (
	"github.com/swckit/swc-runtime/errors"
	"github.com/swckit/swc-runtime/skeleton"
)

// Program bundles the three user functions a sequencer needs.
type Program struct {
	Setup   skeleton.SetupFunc
	Step    skeleton.StepFunc
	Control skeleton.ControlFunc
}

// Registry resolves the function names a network description refers to.
// Descriptions stay declarative; behavior lives in Go code registered here.
type Registry struct {
	maps     map[string]func(float64) float64
	programs map[string]Program
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		maps:     make(map[string]func(float64) float64),
		programs: make(map[string]Program),
	}
}

// RegisterMap registers a named mapping function for feedthroughs and
// triggers.
func (r *Registry) RegisterMap(name string, fn func(float64) float64) error {
	if name == "" || fn == nil {
		return errors.InvalidInput(errors.PhaseConfig, "map registration needs a name and a function")
	}
	if _, exists := r.maps[name]; exists {
		return errors.DuplicateName(errors.PhaseConfig, "map", name)
	}
	r.maps[name] = fn
	return nil
}

// RegisterProgram registers a named sequencer program.
func (r *Registry) RegisterProgram(name string, p Program) error {
	if name == "" || p.Setup == nil || p.Step == nil || p.Control == nil {
		return errors.InvalidInput(errors.PhaseConfig, "program registration needs a name and setup/step/control functions")
	}
	if _, exists := r.programs[name]; exists {
		return errors.DuplicateName(errors.PhaseConfig, "program", name)
	}
	r.programs[name] = p
	return nil
}

func (r *Registry) mapFunc(name string) (func(float64) float64, error) {
	fn, ok := r.maps[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseConfig, "map", name)
	}
	return fn, nil
}

func (r *Registry) program(name string) (Program, error) {
	p, ok := r.programs[name]
	if !ok {
		return Program{}, errors.NotFound(errors.PhaseConfig, "program", name)
	}
	return p, nil
}
