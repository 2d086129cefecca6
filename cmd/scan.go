package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"optimg/internal/processor"
	"optimg/internal/tui"
	"optimg/pkg/imgutil"
)

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "List the images a run would touch, without writing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFromFlags()
		if err != nil {
			return err
		}
		return runScan(cmd.OutOrStdout(), rootArg(args), opts)
	},
}

// runScan lists every discovered file with its sniffed format and the action
// a real run would take, then prints the dry-run summary.
func runScan(out io.Writer, root string, opts processor.Options) error {
	files, err := processor.Scan(root, opts.Rules)
	if err != nil {
		return err
	}

	base := root
	if abs, absErr := filepath.Abs(root); absErr == nil {
		base = abs
	}

	opts.Root = base
	opts.DryRun = true
	summary := processor.Summary{Discovered: len(files)}
	for _, path := range files {
		outcome := processor.Optimize(path, opts)
		summary = summary.Add(outcome)

		kind, _ := imgutil.SniffFile(path)
		rel, relErr := filepath.Rel(base, path)
		if relErr != nil {
			rel = path
		}
		fmt.Fprintf(out, "%s %s %s\n",
			scanActionStyle.Render(fmt.Sprintf("%-8s", actionLabel(outcome))),
			scanKindStyle.Render(fmt.Sprintf("%-7s", kind)),
			scanFileStyle.Render(rel),
		)
	}

	fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary, true)))
	return nil
}

func actionLabel(o processor.Outcome) string {
	switch o.Status {
	case processor.StatusSkipped:
		return "skip"
	case processor.StatusFailed:
		return "error"
	default:
		if o.Resized {
			return "resize"
		}
		return "convert"
	}
}

var (
	scanFileStyle   = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanActionStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	scanKindStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(scanCmd)
}
