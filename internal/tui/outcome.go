package tui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"optimg/internal/processor"
)

// FormatOutcome renders one line for o. Paths are shown relative to base
// when possible.
func FormatOutcome(o processor.Outcome, base string) string {
	src := displayPath(o.Path, base)
	out := filepath.Base(o.OutputPath)

	switch o.Status {
	case processor.StatusSkipped:
		return fmt.Sprintf("%s %s %s",
			skipMark.Render("-"),
			pathStyle.Render(src),
			dimStyle.Render("already optimized, skipping"),
		)
	case processor.StatusOptimized:
		line := fmt.Sprintf("%s %s %s %s  %s -> %s %s",
			okMark.Render("✓"),
			pathStyle.Render(src),
			dimStyle.Render("->"),
			pathStyle.Render(out),
			formatBytes(o.OriginalSize),
			formatBytes(o.NewSize),
			savingsStyle(o.SavingsPercent).Render(fmt.Sprintf("(%s)", formatSavings(o.SavingsPercent))),
		)
		if o.Resized {
			line += dimStyle.Render(fmt.Sprintf(" resized to %dx%d", o.Width, o.Height))
		}
		return line
	case processor.StatusFailed:
		return fmt.Sprintf("%s %s %s",
			failMark.Render("✗"),
			pathStyle.Render(src),
			failStyle.Render(o.Reason()),
		)
	case processor.StatusPlanned:
		line := fmt.Sprintf("%s %s %s %s  %s",
			planMark.Render("•"),
			pathStyle.Render(src),
			dimStyle.Render("->"),
			pathStyle.Render(out),
			formatBytes(o.OriginalSize),
		)
		if o.Resized {
			line += dimStyle.Render(fmt.Sprintf(" would resize to %dx%d", o.Width, o.Height))
		}
		return line
	default:
		return src
	}
}

// PrintUpdates writes a line for every outcome on updates until it closes.
// It is the non-interactive counterpart of Model.
func PrintUpdates(w io.Writer, updates <-chan processor.ProgressUpdate, base string) {
	for update := range updates {
		if update.Outcome != nil {
			fmt.Fprintln(w, FormatOutcome(*update.Outcome, base))
		}
	}
}

func displayPath(path, base string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

func formatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}

func formatSavings(pct float64) string {
	if pct < 0 {
		return fmt.Sprintf("+%.1f%% larger", -pct)
	}
	return fmt.Sprintf("%.1f%% smaller", pct)
}

func savingsStyle(pct float64) lipgloss.Style {
	if pct < 0 {
		return warnStyle
	}
	return successStyle
}

var (
	pathStyle    = lipgloss.NewStyle().Foreground(ColorInk)
	okMark       = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	skipMark     = lipgloss.NewStyle().Foreground(ColorDim)
	failMark     = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	planMark     = lipgloss.NewStyle().Foreground(ColorAccent)
	failStyle    = lipgloss.NewStyle().Foreground(ColorError)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
)
