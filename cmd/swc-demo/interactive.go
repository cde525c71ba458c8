package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swckit/swc-runtime/config"
	"github.com/swckit/swc-runtime/dispatch"
	"github.com/swckit/swc-runtime/skeleton"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	portStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// frameRate is both the TUI refresh interval and the amount of virtual
// time advanced per frame.
const frameRate = 50 * time.Millisecond

type modelState int

const (
	stateSelect modelState = iota
	stateInput
)

// target is one stimulatable element: a required port to feed or a
// provided operation to invoke.
type target struct {
	name string
	isOp bool
}

type interactiveModel struct {
	d       *dispatch.Dispatcher
	built   *config.Built
	snk     *sink
	targets []target
	input   textinput.Model
	cursor  int
	state   modelState
	lastErr error
}

type frameMsg time.Time

func newInteractiveModel(d *dispatch.Dispatcher, built *config.Built, snk *sink) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "value (number or true/false)"
	ti.CharLimit = 32

	var targets []target
	ports := d.Ports()
	sort.Strings(ports)
	for _, name := range ports {
		// Only unconnected required ports make sense as feed targets;
		// listing all required ports keeps the demo simple.
		if strings.HasSuffix(name, "/in") || strings.HasSuffix(name, "/left") || strings.HasSuffix(name, "/right") {
			targets = append(targets, target{name: name})
		}
	}
	ops := d.Operations()
	sort.Strings(ops)
	for _, name := range ops {
		targets = append(targets, target{name: name, isOp: true})
	}

	return &interactiveModel{
		d:       d,
		built:   built,
		snk:     snk,
		targets: targets,
		input:   ti,
	}
}

func runInteractive(configPath string, verbose bool) error {
	d, built, snk, err := buildNetwork(configPath, verbose)
	if err != nil {
		return err
	}

	m := newInteractiveModel(d, built, snk)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		// All dispatch happens on the Update goroutine, so handles can be
		// read in View without synchronization.
		m.d.Advance(context.Background(), frameRate)
		return m, frameTick()

	case tea.KeyMsg:
		if m.state == stateInput {
			return m.updateInput(msg)
		}
		return m.updateSelect(msg)
	}
	return m, nil
}

func (m *interactiveModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.targets)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.targets) == 0 {
			return m, nil
		}
		m.state = stateInput
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *interactiveModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateSelect
		m.input.Blur()
		return m, nil
	case "enter":
		m.lastErr = m.stimulate(m.targets[m.cursor], m.input.Value())
		m.state = stateSelect
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// stimulate parses raw and either feeds the port or invokes the operation.
func (m *interactiveModel) stimulate(t target, raw string) error {
	ctx := context.Background()
	raw = strings.TrimSpace(raw)

	var arg any
	if b, err := strconv.ParseBool(raw); err == nil {
		arg = b
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		arg = f
	} else {
		return fmt.Errorf("cannot parse %q as bool or number", raw)
	}

	if t.isOp {
		_, err := m.d.Invoke(ctx, t.name, arg)
		return err
	}
	return m.d.Feed(ctx, t.name, arg)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("swc-demo"))
	b.WriteString(fmt.Sprintf("  t=%s  errors=%d\n\n", m.d.Now(), m.d.ErrorCount()))

	ports := m.d.Ports()
	sort.Strings(ports)
	for _, name := range ports {
		v, ok := m.d.Peek(name)
		if !ok {
			b.WriteString(fmt.Sprintf("  %s = %s\n", portStyle.Render(name), helpStyle.Render("(no value yet)")))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s = %s\n", portStyle.Render(name), valueStyle.Render(fmt.Sprintf("%v", v))))
	}

	for name, seq := range m.built.Sequencers {
		b.WriteString(fmt.Sprintf("  %s: %s\n", portStyle.Render(name), renderState(seq.Snapshot())))
	}
	b.WriteString(fmt.Sprintf("  remote calls: %s\n\n",
		valueStyle.Render(fmt.Sprintf("%d (last %v)", m.snk.calls, m.snk.last))))

	b.WriteString("stimulate:\n")
	for i, t := range m.targets {
		label := t.name
		if t.isOp {
			label = opStyle.Render(label + " (operation)")
		} else {
			label = portStyle.Render(label)
		}
		if i == m.cursor && m.state == stateSelect {
			b.WriteString(selectedStyle.Render("> " + t.name))
			if t.isOp {
				b.WriteString(opStyle.Render(" (operation)"))
			}
			b.WriteString("\n")
		} else {
			b.WriteString("  " + label + "\n")
		}
	}

	if m.state == stateInput {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if m.lastErr != nil {
		b.WriteString("\n" + errorStyle.Render(m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ select · enter stimulate · esc cancel · q quit"))
	return b.String()
}

func renderState(st skeleton.SequencerState) string {
	switch s := st.(type) {
	case skeleton.Running:
		return valueStyle.Render(fmt.Sprintf("running index=%d ticks=%d/%d", s.Index, s.Ticks, s.Limit))
	case skeleton.Stopped:
		return helpStyle.Render("stopped")
	default:
		return errorStyle.Render("unknown state")
	}
}
