// Package ui renders live run progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Status is a script's place in the run lifecycle.
type Status uint8

const (
	StatusQueued Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
	StatusKnown // finished with known issues only
)

// ScriptEvent advances one script's displayed status.
type ScriptEvent struct {
	Path   string
	Status Status
}

type runModel struct {
	title   string
	events  <-chan ScriptEvent
	spinner spinner.Model
	prog    progress.Model
	items   []scriptItem
	index   map[string]int
	width   int
	done    bool
}

type scriptItem struct {
	path   string
	status Status
}

type eventMsg ScriptEvent
type doneMsg struct{}

// NewRunModel returns a Bubble Tea model that renders script progress.
// The model quits when the events channel closes.
func NewRunModel(title string, scripts []string, events <-chan ScriptEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]scriptItem, 0, len(scripts))
	index := make(map[string]int, len(scripts))
	for i, path := range scripts {
		items = append(items, scriptItem{path: path, status: StatusQueued})
		index[path] = i
	}
	return &runModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *runModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(ScriptEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *runModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.path, nameWidth)
		label := statusLabel(item.status)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", label))
		b.WriteString(fmt.Sprintf("  %s %s", statusStyled, name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *runModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *runModel) applyEvent(ev ScriptEvent) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		return nil
	}
	m.items[idx].status = ev.Status

	total := 0.0
	for _, item := range m.items {
		total += progressFromStatus(item.status)
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStatus(status Status) float64 {
	switch status {
	case StatusRunning:
		return 0.5
	case StatusPassed, StatusFailed, StatusKnown:
		return 1.0
	default:
		return 0.0
	}
}

func statusLabel(status Status) string {
	switch status {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusKnown:
		return "known"
	default:
		return ""
	}
}

func styleStatus(status Status) lipgloss.Style {
	switch status {
	case StatusPassed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case StatusRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	case StatusKnown:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
