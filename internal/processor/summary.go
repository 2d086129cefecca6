package processor

// Summary aggregates the outcomes of one run. Byte totals only count
// optimized files.
type Summary struct {
	Discovered    int
	Optimized     int
	Skipped       int
	Failed        int
	Planned       int
	Resized       int
	OriginalBytes int64
	NewBytes      int64
}

// Add returns s with o folded in.
func (s Summary) Add(o Outcome) Summary {
	switch o.Status {
	case StatusOptimized:
		s.Optimized++
		s.OriginalBytes += o.OriginalSize
		s.NewBytes += o.NewSize
		if o.Resized {
			s.Resized++
		}
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	case StatusPlanned:
		s.Planned++
		if o.Resized {
			s.Resized++
		}
	}
	return s
}

// Fold builds a Summary for a run that discovered the given number of files.
func Fold(discovered int, outcomes []Outcome) Summary {
	s := Summary{Discovered: discovered}
	for _, o := range outcomes {
		s = s.Add(o)
	}
	return s
}

// BytesSaved is positive when outputs are smaller than their originals.
func (s Summary) BytesSaved() int64 {
	return s.OriginalBytes - s.NewBytes
}

// SavingsPercent reports the overall reduction. ok is false when nothing
// was optimized, since the percentage is undefined.
func (s Summary) SavingsPercent() (pct float64, ok bool) {
	if s.OriginalBytes <= 0 {
		return 0, false
	}
	return SavingsPercent(s.OriginalBytes, s.NewBytes), true
}
