package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskSpecInvocation(t *testing.T) {
	tests := []struct {
		name     string
		spec     TaskSpec
		expected []string
	}{
		{
			name: "plain invocation",
			spec: TaskSpec{Target: "core.domain.exp_test"},
			expected: []string{
				"scripts/suite_runner",
				"--test_target=core.domain.exp_test",
			},
		},
		{
			name: "instrumented invocation wraps with the coverage collector",
			spec: TaskSpec{Target: "core.domain.exp_test", Instrumented: true},
			expected: []string{
				"coverage",
				"-xp",
				"scripts/suite_runner",
				"--test_target=core.domain.exp_test",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.Invocation("scripts/suite_runner", "coverage")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTaskSpecInvocationIsIdempotent(t *testing.T) {
	spec := TaskSpec{Target: "core.controllers.base_test", Instrumented: true}

	first := spec.Invocation("scripts/suite_runner", "coverage")
	second := spec.Invocation("scripts/suite_runner", "coverage")

	assert.Equal(t, first, second, "two invocations of the same spec must be byte-identical")
}

func TestTaskLifecycle(t *testing.T) {
	task := NewTask(TaskSpec{Target: "core.domain.exp_test"})
	assert.Equal(t, "core.domain.exp_test", task.Name)

	state := task.Snapshot()
	assert.False(t, state.Finished)
	assert.True(t, state.Started.IsZero())
	assert.Empty(t, state.Output)
	assert.NoError(t, state.Failure)

	started := time.Now()
	task.markStarted(started)
	state = task.Snapshot()
	assert.Equal(t, started, state.Started)
	assert.False(t, state.Finished)

	task.finish("Ran 3 tests in 0.4s", nil)
	state = task.Snapshot()
	require.True(t, state.Finished)
	assert.Equal(t, "Ran 3 tests in 0.4s", state.Output)
	assert.NoError(t, state.Failure)
}

func TestTaskFinishTwicePanics(t *testing.T) {
	task := NewTask(TaskSpec{Target: "core.domain.exp_test"})
	task.finish("", nil)

	assert.Panics(t, func() {
		task.finish("", nil)
	})
}

func TestTaskSnapshotIsConsistentUnderConcurrentReads(t *testing.T) {
	task := NewTask(TaskSpec{Target: "core.domain.exp_test"})
	task.markStarted(time.Now())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			state := task.Snapshot()
			// Readers must observe the pre-finish or fully-finished state,
			// never a finished task without its output.
			if state.Finished {
				assert.NotEmpty(t, state.Output)
			}
		}
	}()

	task.finish("Ran 1 test in 0.1s", nil)
	<-done
}
