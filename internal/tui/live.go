// Package tui renders a simulation run live in the terminal: counters,
// running significance, and the accumulating energy spectrum.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/xivix/darksim/internal/detector"
	"github.com/xivix/darksim/internal/particle"
	"github.com/xivix/darksim/internal/sim"
	"github.com/xivix/darksim/internal/stats"
)

var (
	title   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	value   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	sigGood = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	sigLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errText = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

const (
	batchSize    = 256
	spectrumBins = 40
)

type eventsMsg []particle.DetectionEvent

type doneMsg struct{ err error }

type Model struct {
	cfg         detector.Config
	nSignal     int
	nBackground int

	events chan particle.DetectionEvent
	done   chan error

	signal     int
	background int
	energies   []float64

	finished bool
	err      error
	width    int
}

func New(cfg detector.Config, nSignal, nBackground int, seed int64) (*Model, error) {
	run, err := sim.New(cfg, sim.WithSeed(seed))
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:         cfg,
		nSignal:     nSignal,
		nBackground: nBackground,
		events:      make(chan particle.DetectionEvent, batchSize),
		done:        make(chan error, 1),
		width:       80,
	}

	go func() {
		err := run.EventsFunc(nSignal, nBackground, func(ev particle.DetectionEvent) bool {
			m.events <- ev
			return true
		})
		close(m.events)
		m.done <- err
	}()

	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return m.waitForEvents()
}

func (m *Model) waitForEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{err: <-m.done}
		}
		batch := eventsMsg{ev}
		for len(batch) < batchSize {
			select {
			case ev, ok := <-m.events:
				if !ok {
					return batch
				}
				batch = append(batch, ev)
			default:
				return batch
			}
		}
		return batch
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case eventsMsg:
		for _, ev := range msg {
			if ev.Signal {
				m.signal++
			} else {
				m.background++
			}
			m.energies = append(m.energies, ev.ObservedEnergy)
		}
		return m, m.waitForEvents()
	case doneMsg:
		m.finished = true
		m.err = msg.err
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(title.Render(fmt.Sprintf("darksim live — %s", m.cfg.Kind)))
	b.WriteString("\n\n")

	sigma := stats.Significance(m.signal, m.background)
	sigStyle := sigLow
	if sigma >= 3 {
		sigStyle = sigGood
	}

	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		label.Render("signal:"), value.Render(fmt.Sprintf("%d/%d", m.signal, m.nSignal)),
		label.Render("background:"), value.Render(fmt.Sprintf("%d/%d", m.background, m.nBackground)),
		label.Render("total:"), value.Render(fmt.Sprintf("%d", m.signal+m.background)),
		label.Render("significance:"), sigStyle.Render(fmt.Sprintf("%.2fσ", sigma)),
	))
	b.WriteString("\n")

	if counts := m.spectrum(); counts != nil {
		graph := asciigraph.Plot(counts,
			asciigraph.Height(10),
			asciigraph.Width(min(m.width-10, 70)),
			asciigraph.Caption("observed energy spectrum (keV)"),
		)
		b.WriteString(graph)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errText.Render(fmt.Sprintf("run failed: %v", m.err)) + "\n")
	} else if m.finished {
		b.WriteString("\n" + label.Render("run complete — press q to exit") + "\n")
	} else {
		b.WriteString("\n" + label.Render("generating… press q to abort") + "\n")
	}
	return b.String()
}

func (m *Model) spectrum() []float64 {
	if len(m.energies) == 0 {
		return nil
	}
	maxE := 0.0
	for _, e := range m.energies {
		if e > maxE {
			maxE = e
		}
	}
	if maxE <= 0 {
		return nil
	}
	counts := make([]float64, spectrumBins)
	for _, e := range m.energies {
		idx := int(e / maxE * float64(spectrumBins))
		if idx >= spectrumBins {
			idx = spectrumBins - 1
		}
		counts[idx]++
	}
	return counts
}

// Run drives the live view to completion.
func Run(cfg detector.Config, nSignal, nBackground int, seed int64) error {
	m, err := New(cfg, nSignal, nBackground, seed)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
