package processor

import (
	"fmt"
	"time"
)

const (
	TargetExt         = ".webp"
	DefaultMaxWidth   = 1920
	DefaultQuality    = 80
	DefaultMethod     = 6
	DefaultLogoMarker = "logo"
)

var (
	DefaultExtensions  = []string{".png", ".jpg", ".jpeg", ".webp"}
	DefaultExcludeDirs = []string{"fonts"}
)

type Options struct {
	// Root is the scanned directory. The logo marker is only matched
	// against the part of a path below it.
	Root        string
	MaxWidth    int
	Quality     int
	Method      int
	LogoMarker  string
	Workers     int
	FileTimeout time.Duration
	DryRun      bool
	Rules       ScanRules
}

// DefaultOptions returns the settings used when no flags are given.
func DefaultOptions() Options {
	return Options{
		MaxWidth:   DefaultMaxWidth,
		Quality:    DefaultQuality,
		Method:     DefaultMethod,
		LogoMarker: DefaultLogoMarker,
		Workers:    1,
		Rules:      DefaultScanRules(),
	}
}

func (o Options) Validate() error {
	if o.MaxWidth <= 0 {
		return fmt.Errorf("max width must be positive, got %d", o.MaxWidth)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality must be within 0-100, got %d", o.Quality)
	}
	if o.Method < 0 || o.Method > 6 {
		return fmt.Errorf("method must be within 0-6, got %d", o.Method)
	}
	if o.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", o.Workers)
	}
	if o.FileTimeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if len(o.Rules.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	return nil
}

type ScanRules struct {
	Extensions  []string
	ExcludeDirs []string
}

func DefaultScanRules() ScanRules {
	return ScanRules{
		Extensions:  append([]string(nil), DefaultExtensions...),
		ExcludeDirs: append([]string(nil), DefaultExcludeDirs...),
	}
}

type Job struct {
	Index int
	Path  string
}

// Status tags an Outcome.
type Status int

const (
	StatusSkipped Status = iota
	StatusOptimized
	StatusFailed
	StatusPlanned
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusOptimized:
		return "optimized"
	case StatusFailed:
		return "failed"
	case StatusPlanned:
		return "planned"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing exactly one file. Which fields are
// meaningful depends on Status:
//
//	Skipped:   Path, OutputPath
//	Optimized: Path, OutputPath, OriginalSize, NewSize, SavingsPercent,
//	           Resized, Width, Height
//	Failed:    Path, Err
//	Planned:   Path, OutputPath, OriginalSize, Resized, Width, Height
type Outcome struct {
	Status         Status
	Path           string
	OutputPath     string
	OriginalSize   int64
	NewSize        int64
	SavingsPercent float64
	Resized        bool
	Width          int
	Height         int
	Err            error
}

func skipped(path, out string) Outcome {
	return Outcome{Status: StatusSkipped, Path: path, OutputPath: out}
}

func failed(path string, err error) Outcome {
	return Outcome{Status: StatusFailed, Path: path, Err: err}
}

// Reason returns the failure message, or "" for outcomes that did not fail.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

type ProgressUpdate struct {
	TotalDelta     int
	OptimizedDelta int
	SkippedDelta   int
	FailedDelta    int
	PlannedDelta   int
	SavedDelta     int64
	Outcome        *Outcome
}
