package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"
)

type result struct {
	index   int
	outcome Outcome
}

// Run scans root, optimizes every discovered file and folds the outcomes into
// a Summary. The scan completes before any output is written. Outcomes are
// returned in scan order. A scan failure aborts the run with no outcomes;
// per-file failures never do. Once ctx is canceled no further file is
// dispatched; files already dispatched still produce an outcome and Run
// returns ctx.Err().
//
// When updates is non-nil it receives one TotalDelta update followed by one
// update per outcome. Run does not close it.
func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (Summary, []Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := Scan(root, opts.Rules)
	if err != nil {
		return Summary{}, nil, err
	}
	if absRoot, absErr := filepath.Abs(root); absErr == nil {
		opts.Root = absRoot
	}
	if updates != nil {
		updates <- ProgressUpdate{TotalDelta: len(files)}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	jobs := make(chan Job)
	results := make(chan result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results, opts)
		}()
	}

	outcomes := make([]Outcome, len(files))
	completed := make([]bool, len(files))
	summary := Summary{Discovered: len(files)}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			outcomes[res.index] = res.outcome
			completed[res.index] = true
			summary = summary.Add(res.outcome)
			if updates != nil {
				updates <- progressFor(res.outcome)
			}
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				producerErr <- err
				return
			}
			select {
			case jobs <- Job{Index: i, Path: path}:
			case <-ctx.Done():
				producerErr <- ctx.Err()
				return
			}
		}
		producerErr <- nil
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	done := make([]Outcome, 0, len(files))
	for i, ok := range completed {
		if ok {
			done = append(done, outcomes[i])
		}
	}

	err = <-producerErr
	if err == nil && len(done) < len(files) {
		err = ctx.Err()
	}
	return summary, done, err
}

// worker processes every job it receives; cancellation only stops it from
// taking new ones, so a dispatched file always yields an outcome.
func worker(ctx context.Context, jobs <-chan Job, results chan<- result, opts Options) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			results <- result{index: job.Index, outcome: optimizeWithTimeout(job.Path, opts)}
		}
	}
}

// optimizeWithTimeout bounds Optimize by opts.FileTimeout. A file that runs
// over is reported as failed; its encode keeps running in the background and
// can only land through the temp-file rename.
func optimizeWithTimeout(path string, opts Options) Outcome {
	return withTimeout(path, opts.FileTimeout, func() Outcome {
		return Optimize(path, opts)
	})
}

func withTimeout(path string, timeout time.Duration, fn func() Outcome) Outcome {
	if timeout <= 0 {
		return fn()
	}

	done := make(chan Outcome, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o := <-done:
		return o
	case <-timer.C:
		return failed(path, fmt.Errorf("%w after %s", ErrTimeout, timeout))
	}
}

func progressFor(o Outcome) ProgressUpdate {
	update := ProgressUpdate{Outcome: &o}
	switch o.Status {
	case StatusOptimized:
		update.OptimizedDelta = 1
		update.SavedDelta = o.OriginalSize - o.NewSize
	case StatusSkipped:
		update.SkippedDelta = 1
	case StatusFailed:
		update.FailedDelta = 1
	case StatusPlanned:
		update.PlannedDelta = 1
	}
	return update
}
