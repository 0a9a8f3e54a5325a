package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent failures of a run.
// Address validation misses are never errors; they are filtered silently.
var (
	// ErrSourceUnreadable indicates a local file cannot be opened or decoded.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrSourceUnreachable indicates a network fetch failed, timed out,
	// or returned a non-success status.
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrUnsupportedSourceKind indicates no extractor exists for a source kind.
	ErrUnsupportedSourceKind = errors.New("unsupported source kind")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDeliveryFailed indicates the result set could not be delivered
	// to the notification endpoint. The run itself succeeded.
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrInvalidSetting indicates an unknown settings key or a value
	// that cannot be converted to the key's type.
	ErrInvalidSetting = errors.New("invalid setting")
)

// RunError reports which stage of a run failed and why.
// It unwraps to the underlying error so callers can use errors.Is
// against the sentinel taxonomy above.
type RunError struct {
	// Stage is the pipeline stage that failed.
	Stage Stage

	// Source is the descriptor the run was started with.
	Source SourceDescriptor

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Source.Label(), e.Err)
}

// Unwrap returns the underlying cause.
func (e *RunError) Unwrap() error {
	return e.Err
}
