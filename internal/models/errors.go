package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Input errors
	ErrInputNotFound    = errors.New("input media not found")
	ErrMediaUnreadable  = errors.New("media unreadable")
	ErrToolchainMissing = errors.New("media toolchain not available")

	// Per-window errors, recoverable
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrSummarizationFailed = errors.New("summarization failed")

	// Job lifecycle
	ErrCancelledByUser   = errors.New("cancelled by user")
	ErrJobAlreadyRunning = errors.New("job already running")

	// Configuration errors
	ErrInvalidTier          = errors.New("invalid quality tier")
	ErrInvalidChunkDuration = errors.New("invalid chunk duration")
)

// ExtractionError reports a failed decode of one TimeWindow.
type ExtractionError struct {
	Start    time.Duration
	Duration time.Duration
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s+%s: %v", FormatTimestamp(e.Start), e.Duration, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtractionFailed }

// StageError attaches the pipeline stage to a fatal job error.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
