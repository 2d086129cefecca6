package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"optimg/internal/processor"
)

type Model struct {
	updates   <-chan processor.ProgressUpdate
	base      string
	started   time.Time
	width     int
	total     int
	optimized int
	skipped   int
	failed    int
	planned   int
	saved     int64
	quitting  bool
	cancel    func()
}

type doneMsg struct{}

type updateMsg processor.ProgressUpdate

// NewModel builds a progress view fed by updates. Outcome lines are printed
// above the bar with paths relative to base.
func NewModel(updates <-chan processor.ProgressUpdate, base string) Model {
	return Model{updates: updates, base: base, started: time.Now()}
}

// WithCancel sets the function called when the user presses ctrl+c.
func (m Model) WithCancel(cancel func()) Model {
	m.cancel = cancel
	return m
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.optimized += msg.OptimizedDelta
		m.skipped += msg.SkippedDelta
		m.failed += msg.FailedDelta
		m.planned += msg.PlannedDelta
		m.saved += msg.SavedDelta
		next := listenForUpdates(m.updates)
		if msg.Outcome != nil {
			return m, tea.Sequence(tea.Println(FormatOutcome(*msg.Outcome, m.base)), next)
		}
		return m, next
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) done() int {
	return m.optimized + m.skipped + m.failed + m.planned
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.done()) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	bar := renderBar(barWidth, ratio)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("optimg"),
		labelStyle.Render(fmt.Sprintf("Images: %d/%d", m.done(), m.total)) +
			dimStyle.Render(fmt.Sprintf("  skipped:%d  failed:%d", m.skipped, m.failed)),
		labelStyle.Render(fmt.Sprintf("Saved: %s", formatBytes(m.saved))),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan processor.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
