// Package ui renders vanec build's progress as a Bubble Tea program, scoped
// to internal/driver's event granularity: Build reports one Event per
// pipeline stage for the whole run, not per file, since only the loader's
// disk reads are parallelized (internal/driver's arena-safety note) — so
// this model tracks a single spinner/progress-bar row rather than a
// per-file table.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vane/internal/driver"
)

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	stage   string
	failed  error
	done    bool
	width   int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model driven by a driver.Event
// channel, as produced by driver.BuildOptions.Events.
func NewProgressModel(title string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 60

	return &progressModel{title: title, events: events, spinner: sp, prog: prog, width: 80}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := driver.Event(msg)
		cmd := m.applyEvent(ev)
		return m, tea.Batch(cmd, m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.prog.Update(msg)
		m.prog = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.failed != nil:
		header = fmt.Sprintf("failed: %s (%s)", header, m.failed)
	case m.done:
		header = fmt.Sprintf("done: %s", header)
	default:
		header = fmt.Sprintf("%s %s (%s)", m.spinner.View(), header, m.stage)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	m.stage = string(ev.Stage)
	if ev.Status == driver.StatusError {
		m.failed = ev.Err
		return nil
	}
	return m.prog.SetPercent(progressFromStage(ev.Stage, ev.Status))
}

func progressFromStage(stage driver.Stage, status driver.Status) float64 {
	base := map[driver.Stage]float64{
		driver.StageParse:    0.1,
		driver.StageDiagnose: 0.4,
		driver.StageLower:    0.8,
	}[stage]
	if status == driver.StatusDone {
		if stage == driver.StageLower {
			return 1.0
		}
		return base + 0.1
	}
	return base
}
