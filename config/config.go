package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/swckit/swc-runtime/errors"
)

// Duration wraps time.Duration with YAML support for strings like "10ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse duration")
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Component kinds accepted in a network description.
const (
	KindFeedthrough = "feedthrough"
	KindSwitch      = "switch"
	KindTrigger     = "trigger"
	KindSequencer   = "sequencer"
)

// Component describes one skeleton instance. Map and Program name entries
// in the Registry supplied at build time; payloads are float64.
type Component struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Map        string   `yaml:"map,omitempty"`
	Program    string   `yaml:"program,omitempty"`
	Period     Duration `yaml:"period,omitempty"`
	Resolution Duration `yaml:"resolution,omitempty"`
	Initial    float64  `yaml:"initial,omitempty"`
}

// Connection routes a provided port into a required port.
type Connection struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Binding binds a required operation to a provided one.
type Binding struct {
	Required string `yaml:"required"`
	Provided string `yaml:"provided"`
}

// Network is a declarative description of a component network.
type Network struct {
	Components  []Component  `yaml:"components"`
	Connections []Connection `yaml:"connections"`
	Bindings    []Binding    `yaml:"bindings"`
}

// Load parses and validates a YAML network description.
func Load(data []byte) (*Network, error) {
	var n Network
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse network description")
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

func (n *Network) validate() error {
	if len(n.Components) == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "network has no components")
	}

	seen := make(map[string]bool, len(n.Components))
	for i, c := range n.Components {
		if c.Name == "" {
			return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("component %d has no name", i))
		}
		if seen[c.Name] {
			return errors.DuplicateName(errors.PhaseConfig, "component", c.Name)
		}
		seen[c.Name] = true

		switch c.Kind {
		case KindFeedthrough:
			if c.Map == "" {
				return missingField(c.Name, "map")
			}
		case KindSwitch:
			// no parameters beyond the name
		case KindTrigger:
			if c.Map == "" {
				return missingField(c.Name, "map")
			}
			if c.Period <= 0 {
				return missingField(c.Name, "period")
			}
		case KindSequencer:
			if c.Program == "" {
				return missingField(c.Name, "program")
			}
		default:
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Component(c.Name).
				Detail("unknown component kind %q", c.Kind).
				Build()
		}
	}

	for _, conn := range n.Connections {
		if conn.From == "" || conn.To == "" {
			return errors.InvalidInput(errors.PhaseConfig, "connection needs both from and to")
		}
	}
	for _, b := range n.Bindings {
		if b.Required == "" || b.Provided == "" {
			return errors.InvalidInput(errors.PhaseConfig, "binding needs both required and provided")
		}
	}
	return nil
}

func missingField(component, field string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Component(component).
		Detail("missing required field %q", field).
		Build()
}
