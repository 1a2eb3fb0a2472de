package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// pollInterval is how often the view drains the job's event channel.
const pollInterval = 100 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

// ProgressModel renders the latest ProgressEvent of one job. It never blocks
// on the channel; it drains whatever arrived since the last tick.
type ProgressModel struct {
	title      string
	events     <-chan models.ProgressEvent
	cancel     func()
	bar        progress.Model
	spinner    spinner.Model
	latest     models.ProgressEvent
	skipped    int
	cancelling bool
	done       bool
}

// NewProgressModel creates the view. cancel is called once on ctrl+c or q.
func NewProgressModel(title string, events <-chan models.ProgressEvent, cancel func()) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return ProgressModel{
		title:   title,
		events:  events,
		cancel:  cancel,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spinner: s,
		latest:  models.ProgressEvent{Status: "Starting"},
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Keep rendering until the worker reaches a window boundary.
			if !m.cancelling {
				m.cancelling = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
		return m, nil

	case tickMsg:
		m = m.drain()
		if m.done {
			return m, tea.Quit
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-10, 80))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// drain applies every queued event.
func (m ProgressModel) drain() ProgressModel {
	for {
		select {
		case ev := <-m.events:
			if ev.Err != "" && !ev.Final() {
				m.skipped++
			}
			m.latest = ev
			if ev.Final() {
				m.done = true
				return m
			}
		default:
			return m
		}
	}
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	status := m.latest.Status
	switch m.latest.Phase {
	case models.PhaseDone:
		status = doneStyle.Render("✓ " + status)
	case models.PhaseFailed:
		status = errStyle.Render("✗ " + status)
	case models.PhaseCancelled:
		status = warnStyle.Render("■ " + status)
	default:
		if m.cancelling {
			status = "Cancelling, finishing current window"
		}
		status = m.spinner.View() + " " + status
	}

	fmt.Fprintf(&b, "%s\n", status)
	fmt.Fprintf(&b, "%s %3.0f%%\n", m.bar.ViewAs(m.latest.Percent/100), m.latest.Percent)
	if m.latest.Step != "" {
		b.WriteString(stepStyle.Render(m.latest.Step))
		b.WriteString("\n")
	}
	if m.skipped > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d window(s) skipped", m.skipped)))
		b.WriteString("\n")
	}
	if !m.done {
		b.WriteString(helpStyle.Render("\nctrl+c to cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

// Final returns the last event seen.
func (m ProgressModel) Final() models.ProgressEvent {
	return m.latest
}

// RunProgress renders the job until its final event and returns it.
func RunProgress(title string, events <-chan models.ProgressEvent, cancel func()) (models.ProgressEvent, error) {
	p := tea.NewProgram(NewProgressModel(title, events, cancel))
	final, err := p.Run()
	if err != nil {
		return models.ProgressEvent{}, err
	}
	return final.(ProgressModel).Final(), nil
}
