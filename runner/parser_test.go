package runner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-ci/suite-runner/types"
)

func TestParseSuccess(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		wantCount   int
		wantSeconds float64
		wantOK      bool
	}{
		{
			name:        "plural tests",
			output:      "Ran 7 tests in 1.2s",
			wantCount:   7,
			wantSeconds: 1.2,
			wantOK:      true,
		},
		{
			name:        "singular test",
			output:      "Ran 1 test in 0.3s",
			wantCount:   1,
			wantSeconds: 0.3,
			wantOK:      true,
		},
		{
			name:        "embedded in surrounding output",
			output:      "setup ok\nRan 42 tests in 12.5s\nOK",
			wantCount:   42,
			wantSeconds: 12.5,
			wantOK:      true,
		},
		{
			name:   "no match",
			output: "something else entirely",
			wantOK: false,
		},
		{
			name:   "empty output",
			output: "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, seconds, ok := ParseSuccess(tt.output)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantCount, count)
				assert.Equal(t, tt.wantSeconds, seconds)
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	count, errs, failures, ok := ParseFailure("Test suite failed: 5 tests run, 2 errors, 1 failures")
	require.True(t, ok)
	assert.Equal(t, 5, count)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, failures)

	_, _, _, ok = ParseFailure("Ran 5 tests in 1.0s")
	assert.False(t, ok)
}

// finishedTask builds a task in a given terminal state for classification
// tests.
func finishedTask(target, output string, failure error) *Task {
	task := NewTask(TaskSpec{Target: target})
	task.finish(output, failure)
	return task
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		task    *Task
		want    types.Outcome
		wantErr error
	}{
		{
			name: "unfinished task is canceled",
			task: NewTask(TaskSpec{Target: "a_test"}),
			want: types.Outcome{Kind: types.OutcomeCanceled},
		},
		{
			name: "success output round-trips",
			task: finishedTask("a_test", "Ran 7 tests in 1.2s", nil),
			want: types.Outcome{Kind: types.OutcomeSuccess, Count: 7, Seconds: 1.2},
		},
		{
			name: "failure message round-trips",
			task: finishedTask("a_test", "", errors.New("Test suite failed: 5 tests run, 2 errors, 1 failures")),
			want: types.Outcome{Kind: types.OutcomeFailed, Count: 5, Errors: 2, Failures: 1},
		},
		{
			name: "process error carrying the failure grammar",
			task: finishedTask("a_test", "", &ProcessError{
				ExitCode: 1,
				Output:   "======\nTest suite failed: 12 tests run, 0 errors, 3 failures\n------",
			}),
			want: types.Outcome{Kind: types.OutcomeFailed, Count: 12, Errors: 0, Failures: 3},
		},
		{
			name: "no-tests phrase wins over the failure grammar",
			task: finishedTask("a_test", "", errors.New("Error 1\nNo tests were run")),
			want: types.Outcome{Kind: types.OutcomeNoTests},
		},
		{
			name:    "malformed success output is a hard error",
			task:    finishedTask("a_test", "tests went fine, trust me", nil),
			wantErr: &MalformedSuccessOutputError{},
		},
		{
			name:    "malformed failure output is a hard error",
			task:    finishedTask("a_test", "", errors.New("segfault")),
			wantErr: &MalformedFailureOutputError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.task)
			switch want := tt.wantErr.(type) {
			case *MalformedSuccessOutputError:
				target := want
				require.ErrorAs(t, err, &target)
			case *MalformedFailureOutputError:
				target := want
				require.ErrorAs(t, err, &target)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// Classification must be total: every reachable combination of finished,
// failure-present and failure message produces exactly one outcome or one
// typed error, never a fallthrough.
func TestClassifyIsTotal(t *testing.T) {
	states := []*Task{
		NewTask(TaskSpec{Target: "t"}),
		finishedTask("t", "Ran 2 tests in 0.1s", nil),
		finishedTask("t", "garbage", nil),
		finishedTask("t", "", errors.New("No tests were run")),
		finishedTask("t", "", errors.New("Test suite failed: 1 tests run, 1 errors, 0 failures")),
		finishedTask("t", "", errors.New("garbage")),
	}

	for i, task := range states {
		t.Run(fmt.Sprintf("state_%d", i), func(t *testing.T) {
			outcome, err := Classify(task)
			if err == nil {
				assert.NotEmpty(t, outcome.Kind)
			} else {
				assert.Empty(t, outcome.Kind)
			}
		})
	}
}

func TestProcessErrorMessagePreservesOutput(t *testing.T) {
	err := &ProcessError{ExitCode: 1, Output: "Test suite failed: 5 tests run, 2 errors, 1 failures"}
	assert.Contains(t, err.Error(), "Error 1")
	assert.Contains(t, err.Error(), "Test suite failed: 5 tests run, 2 errors, 1 failures")
}
