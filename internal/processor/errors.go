package processor

import (
	"errors"
	"fmt"
)

// ErrTimeout marks a file whose processing exceeded Options.FileTimeout.
var ErrTimeout = errors.New("timed out")

// ErrUnsupportedFormat is returned when a file's content is not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ScanError aborts a run before any file is touched.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Stage names the step of the per-file pipeline that failed.
type Stage string

const (
	StageIO     Stage = "io"
	StageDecode Stage = "decode"
	StageResize Stage = "resize"
	StageEncode Stage = "encode"
)

// FileError is recorded on a Failed outcome; it never stops a run.
type FileError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

func fileErr(stage Stage, path string, err error) error {
	return &FileError{Stage: stage, Path: path, Err: err}
}
