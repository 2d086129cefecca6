package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"optimg/internal/processor"
	"optimg/internal/tui"
)

// runBatch drives processor.Run with either the progress view or plain
// lines written to out, then prints the summary table. Any failed image makes
// it return an error unless --allow-failures is set.
func runBatch(parent context.Context, out io.Writer, root string, opts processor.Options) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	base := root
	if abs, err := filepath.Abs(root); err == nil {
		base = abs
	}

	updates := make(chan processor.ProgressUpdate, 64)
	uiDone := make(chan struct{})

	if useProgressView(out) {
		program := tea.NewProgram(tui.NewModel(updates, base).WithCancel(stop), tea.WithOutput(out))
		go func() {
			defer close(uiDone)
			_, _ = program.Run()
			for range updates {
			}
		}()
	} else {
		go func() {
			defer close(uiDone)
			tui.PrintUpdates(out, updates, base)
		}()
	}

	summary, _, err := processor.Run(ctx, root, opts, updates)
	close(updates)
	<-uiDone
	if err != nil {
		return err
	}

	fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary, opts.DryRun)))

	if summary.Failed > 0 && !flagAllowFailures {
		return fmt.Errorf("%d of %d images failed", summary.Failed, summary.Discovered)
	}
	return nil
}

func useProgressView(out io.Writer) bool {
	if flagNoProgress {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
