package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/swckit/swc-runtime/config"
	"github.com/swckit/swc-runtime/dispatch"
	"github.com/swckit/swc-runtime/skeleton"
)

// defaultNetwork is the built-in demo: a doubling feedthrough and an
// offsetting feedthrough feeding the two sides of a switch, a trigger
// watching the switch output, and a blinker sequencer.
const defaultNetwork = `
components:
  - name: gain
    kind: feedthrough
    map: double
  - name: offset
    kind: feedthrough
    map: offset10
  - name: sel
    kind: switch
  - name: watch
    kind: trigger
    map: negate
    period: 10ms
  - name: seq
    kind: sequencer
    program: blinker
connections:
  - from: gain/out
    to: sel/left
  - from: offset/out
    to: sel/right
  - from: sel/out
    to: watch/in
bindings:
  - required: watch/call
    provided: console/print
`

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML network description (default: built-in demo)")
		ticks       = flag.Int("ticks", 1000, "Virtual milliseconds to run in headless mode")
		feed        = flag.Float64("feed", 1.0, "Value fed to required input ports in headless mode")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose dispatch logging")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*configPath, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath, *ticks, *feed, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sink records the latest remote call issued by a trigger.
type sink struct {
	calls int
	last  float64
}

func (s *sink) consume(arg any) (any, error) {
	if v, ok := arg.(float64); ok {
		s.calls++
		s.last = v
	}
	return nil, nil
}

// demoRegistry holds the behavior functions the built-in network refers to.
func demoRegistry() (*config.Registry, error) {
	reg := config.NewRegistry()
	if err := reg.RegisterMap("double", func(v float64) float64 { return v * 2 }); err != nil {
		return nil, err
	}
	if err := reg.RegisterMap("offset10", func(v float64) float64 { return v + 10 }); err != nil {
		return nil, err
	}
	if err := reg.RegisterMap("negate", func(v float64) float64 { return -v }); err != nil {
		return nil, err
	}

	// blinker: 250 ticks per phase, index alternates 0/1.
	err := reg.RegisterProgram("blinker", config.Program{
		Setup: func() skeleton.SequencerState { return skeleton.Stopped{} },
		Step: func(index int) skeleton.SequencerState {
			return skeleton.Running{Ticks: 0, Limit: 250, Index: 1 - index}
		},
		Control: func(run bool) skeleton.SequencerState {
			if run {
				return skeleton.Running{Ticks: 0, Limit: 250, Index: 0}
			}
			return skeleton.Stopped{}
		},
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func buildNetwork(configPath string, verbose bool) (*dispatch.Dispatcher, *config.Built, *sink, error) {
	data := []byte(defaultNetwork)
	if configPath != "" {
		var err error
		data, err = os.ReadFile(configPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	network, err := config.Load(data)
	if err != nil {
		return nil, nil, nil, err
	}

	var logger *zap.Logger
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, nil, nil, err
		}
	}

	d := dispatch.New(dispatch.Config{Logger: logger})

	snk := &sink{}
	if err := d.ProvideOperation("console/print", snk.consume); err != nil {
		return nil, nil, nil, err
	}

	built, err := network.Build(d, mustRegistry())
	if err != nil {
		return nil, nil, nil, err
	}
	return d, built, snk, nil
}

func mustRegistry() *config.Registry {
	reg, err := demoRegistry()
	if err != nil {
		panic(err) // registration of literals cannot fail
	}
	return reg
}

func run(configPath string, ticks int, feed float64, verbose bool) error {
	ctx := context.Background()

	d, built, snk, err := buildNetwork(configPath, verbose)
	if err != nil {
		return err
	}

	// Start every sequencer and stimulate every unconnected required port.
	for _, seq := range built.Sequencers {
		if _, err := d.Invoke(ctx, seq.ControlOperation(), true); err != nil {
			return err
		}
	}
	for _, ft := range built.Feedthroughs {
		if err := d.Feed(ctx, ft.In.Name(), feed); err != nil {
			return err
		}
	}

	for i := 0; i < ticks; i++ {
		d.Advance(ctx, time.Millisecond)
		if (i+1)%100 == 0 {
			printState(d, built, snk)
		}
	}
	return nil
}

func printState(d *dispatch.Dispatcher, built *config.Built, snk *sink) {
	fmt.Printf("t=%-8s", d.Now())

	ports := d.Ports()
	sort.Strings(ports)
	for _, name := range ports {
		if v, ok := d.Peek(name); ok {
			fmt.Printf(" %s=%v", name, v)
		}
	}

	for name, seq := range built.Sequencers {
		switch st := seq.Snapshot().(type) {
		case skeleton.Running:
			fmt.Printf(" %s=running(index=%d ticks=%d/%d)", name, st.Index, st.Ticks, st.Limit)
		case skeleton.Stopped:
			fmt.Printf(" %s=stopped", name)
		}
	}

	fmt.Printf(" calls=%d last=%v errors=%d\n", snk.calls, snk.last, d.ErrorCount())
}
