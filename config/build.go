package config

import (
	"github.com/swckit/swc-runtime/dispatch"
	"github.com/swckit/swc-runtime/skeleton"
)

// Built holds the handles of a constructed network, keyed by component name.
type Built struct {
	Feedthroughs map[string]*skeleton.Feedthrough[float64, float64]
	Switches     map[string]*skeleton.Switch[float64]
	Triggers     map[string]*skeleton.Trigger[float64, float64]
	Sequencers   map[string]*skeleton.Sequencer
}

// Build constructs every component of the network on d, then applies the
// declared connections and operation bindings. Provided operations named in
// bindings (external sinks) must be registered on d before Build.
func (n *Network) Build(d *dispatch.Dispatcher, reg *Registry) (*Built, error) {
	built := &Built{
		Feedthroughs: make(map[string]*skeleton.Feedthrough[float64, float64]),
		Switches:     make(map[string]*skeleton.Switch[float64]),
		Triggers:     make(map[string]*skeleton.Trigger[float64, float64]),
		Sequencers:   make(map[string]*skeleton.Sequencer),
	}

	for _, c := range n.Components {
		switch c.Kind {
		case KindFeedthrough:
			fn, err := reg.mapFunc(c.Map)
			if err != nil {
				return nil, err
			}
			ft, err := skeleton.NewFeedthrough(d, skeleton.FeedthroughConfig[float64, float64]{
				Name:    c.Name,
				Map:     fn,
				Initial: c.Initial,
			})
			if err != nil {
				return nil, err
			}
			built.Feedthroughs[c.Name] = ft

		case KindSwitch:
			sw, err := skeleton.NewSwitch[float64](d, skeleton.SwitchConfig{Name: c.Name})
			if err != nil {
				return nil, err
			}
			built.Switches[c.Name] = sw

		case KindTrigger:
			fn, err := reg.mapFunc(c.Map)
			if err != nil {
				return nil, err
			}
			tr, err := skeleton.NewTrigger(d, skeleton.TriggerConfig[float64, float64]{
				Name:    c.Name,
				Period:  c.Period.Std(),
				Map:     fn,
				Initial: c.Initial,
			})
			if err != nil {
				return nil, err
			}
			built.Triggers[c.Name] = tr

		case KindSequencer:
			p, err := reg.program(c.Program)
			if err != nil {
				return nil, err
			}
			seq, err := skeleton.NewSequencer(d, skeleton.SequencerConfig{
				Name:       c.Name,
				Resolution: c.Resolution.Std(),
				Setup:      p.Setup,
				Step:       p.Step,
				Control:    p.Control,
			})
			if err != nil {
				return nil, err
			}
			built.Sequencers[c.Name] = seq
		}
	}

	for _, conn := range n.Connections {
		if err := d.Connect(conn.From, conn.To); err != nil {
			return nil, err
		}
	}
	for _, b := range n.Bindings {
		if err := d.BindOperation(b.Required, b.Provided); err != nil {
			return nil, err
		}
	}
	return built, nil
}
