// Package errors holds the failure taxonomy of a population run.
//
// Every error aborts the run. The types exist so callers (and tests) can tell
// an operator mistake from a store rejection from a programming defect with
// errors.As, while the message keeps the stage and table that failed.
package errors

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or invalid ratio, count or range.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

// DependencyUnavailableError is raised when a stage's mandatory FK pool is empty.
type DependencyUnavailableError struct {
	Stage string
	Pool  string
}

func (e *DependencyUnavailableError) Error() string {
	return fmt.Sprintf("stage %s: required pool %s is empty", e.Stage, e.Pool)
}

// SinkError wraps a rejection from the storage sink.
type SinkError struct {
	Op    string // bulk-load, id-fetch, insert-returning
	Table string
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// SerializationError reports a row that cannot be encoded for bulk transfer.
type SerializationError struct {
	Table  string
	Row    int
	Column string
	Err    error
}

func (e *SerializationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("encode %s row %d column %s: %v", e.Table, e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("encode %s row %d: %v", e.Table, e.Row, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// InvariantViolation marks a programming defect, e.g. sampling a mandatory
// FK from an empty pool after the orchestrator already checked it.
type InvariantViolation struct {
	What string
}

func (e *InvariantViolation) Error() string {
	return "invariant violated: " + e.What
}

// StageError is the error a run aborts with.
type StageError struct {
	Stage     string
	Completed int
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed after %d rows: %v", e.Stage, e.Completed, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Invariant builds an InvariantViolation with a formatted message.
func Invariant(format string, args ...any) error {
	return &InvariantViolation{What: fmt.Sprintf(format, args...)}
}

// Is and As re-export the standard helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
