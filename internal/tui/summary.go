package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"optimg/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows lays out the end-of-run report for s.
func SummaryRows(s processor.Summary, dryRun bool) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Images discovered", Value: fmt.Sprintf("%d", s.Discovered)},
	}
	if dryRun {
		rows = append(rows,
			SummaryRow{Label: "Would optimize", Value: fmt.Sprintf("%d", s.Planned)},
			SummaryRow{Label: "Would resize", Value: fmt.Sprintf("%d", s.Resized)},
			SummaryRow{Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped)},
			SummaryRow{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		)
		return rows
	}

	savings := "n/a"
	if pct, ok := s.SavingsPercent(); ok {
		savings = fmt.Sprintf("%.1f%%", pct)
	}
	rows = append(rows,
		SummaryRow{Label: "Optimized", Value: fmt.Sprintf("%d", s.Optimized)},
		SummaryRow{Label: "Resized", Value: fmt.Sprintf("%d", s.Resized)},
		SummaryRow{Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped)},
		SummaryRow{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		SummaryRow{Label: "Original size", Value: formatBytes(s.OriginalBytes)},
		SummaryRow{Label: "Optimized size", Value: formatBytes(s.NewBytes)},
		SummaryRow{Label: "Space saved", Value: formatBytes(s.BytesSaved())},
		SummaryRow{Label: "Total savings", Value: savings},
	)
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)
