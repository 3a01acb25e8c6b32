package suiterunner

import (
	"errors"
	"fmt"
)

// RuntimeError represents an operational error that should lead to exit
// code 2: bad configuration, an unreadable working directory, a runner
// that violated its output contract, and so on.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// TestFailureError represents a run in which at least one task failed or
// no tests ran (exit code 1).
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Message)
}

// NewTestFailureError creates a new TestFailureError
func NewTestFailureError(message string) *TestFailureError {
	return &TestFailureError{Message: message}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}

// InvalidArgumentsError indicates the filter flags cannot be honored:
// mutually exclusive filters both given, or the wrong delimiter used.
// Raised before any dispatch; nothing runs.
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %s", e.Reason)
}

// ExpectedCountMismatchError reports drift between the configured expected
// test count and the total actually run on a full (unfiltered) run. It is
// independent of individual task pass/fail.
type ExpectedCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *ExpectedCountMismatchError) Error() string {
	return fmt.Sprintf("expected %d tests to be run, not %d", e.Expected, e.Actual)
}
