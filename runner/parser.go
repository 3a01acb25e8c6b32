package runner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/infra-ci/suite-runner/types"
)

// The external runner's output grammars. These are the real subprocess's
// formats and form the contract with it; non-matching output is a
// collaborator contract violation and is surfaced, never guessed at.
var (
	successPattern = regexp.MustCompile(`Ran ([0-9]+) tests? in ([0-9.]+)s`)
	failurePattern = regexp.MustCompile(`Test suite failed: ([0-9]+) tests run, ([0-9]+) errors, ([0-9]+) failures`)
)

// noTestsRunPhrase is matched verbatim against a failed task's error
// message. The runner reports an empty suite this way; the exact wording
// is a fragile contract with it, so the match is neither widened nor
// narrowed here.
const noTestsRunPhrase = "No tests were run"

// MalformedSuccessOutputError indicates a zero-exit task whose output did
// not match the success grammar.
type MalformedSuccessOutputError struct {
	Target string
	Output string
}

func (e *MalformedSuccessOutputError) Error() string {
	return fmt.Sprintf("malformed success output for %s: %q", e.Target, firstLine(e.Output))
}

// MalformedFailureOutputError indicates a failed task whose error message
// did not match the failure grammar.
type MalformedFailureOutputError struct {
	Target  string
	Message string
}

func (e *MalformedFailureOutputError) Error() string {
	return fmt.Sprintf("malformed failure output for %s: %q", e.Target, firstLine(e.Message))
}

// ParseSuccess extracts the test count and runtime from output matching
// "Ran <N> tests in <T>s".
func ParseSuccess(output string) (count int, seconds float64, ok bool) {
	m := successPattern.FindStringSubmatch(output)
	if m == nil {
		return 0, 0, false
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	seconds, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return count, seconds, true
}

// ParseFailure extracts the counts from an error message matching
// "Test suite failed: <N> tests run, <E> errors, <F> failures".
func ParseFailure(message string) (count, errors, failures int, ok bool) {
	m := failurePattern.FindStringSubmatch(message)
	if m == nil {
		return 0, 0, 0, false
	}
	count, _ = strconv.Atoi(m[1])
	errors, _ = strconv.Atoi(m[2])
	failures, _ = strconv.Atoi(m[3])
	return count, errors, failures, true
}

// Classify maps a task's terminal state to an outcome. It is total over
// the reachable states: exactly one outcome (or one typed error) results
// for every combination of finished, failure-present and failure message.
//
// Priority order:
//  1. never finished -> canceled
//  2. failure mentions the no-tests phrase -> no tests found
//  3. any other failure -> failure grammar, count and error/failure totals
//  4. no failure -> success grammar, count and runtime
func Classify(task *Task) (types.Outcome, error) {
	state := task.Snapshot()

	switch {
	case !state.Finished:
		return types.Outcome{Kind: types.OutcomeCanceled}, nil

	case state.Failure != nil && strings.Contains(state.Failure.Error(), noTestsRunPhrase):
		return types.Outcome{Kind: types.OutcomeNoTests}, nil

	case state.Failure != nil:
		count, errs, failures, ok := ParseFailure(state.Failure.Error())
		if !ok {
			return types.Outcome{}, &MalformedFailureOutputError{Target: task.Name, Message: state.Failure.Error()}
		}
		return types.Outcome{
			Kind:     types.OutcomeFailed,
			Count:    count,
			Errors:   errs,
			Failures: failures,
		}, nil

	default:
		count, seconds, ok := ParseSuccess(state.Output)
		if !ok {
			return types.Outcome{}, &MalformedSuccessOutputError{Target: task.Name, Output: state.Output}
		}
		return types.Outcome{
			Kind:    types.OutcomeSuccess,
			Count:   count,
			Seconds: seconds,
		}, nil
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}
