package runner

import (
	"fmt"
	"sync"
	"time"
)

// TaskSpec describes one unit of work: a test target plus the invocation
// mode used to run it. Immutable once created.
type TaskSpec struct {
	Target       string
	Instrumented bool
}

// Invocation returns the argv used to run this spec's target. The
// instrumented form wraps the plain command with the coverage collector.
// Pure function; calling it twice yields identical command lines.
func (s TaskSpec) Invocation(runnerPath, coverageTool string) []string {
	targetFlag := fmt.Sprintf("--test_target=%s", s.Target)
	if s.Instrumented {
		return []string{coverageTool, "-xp", runnerPath, targetFlag}
	}
	return []string{runnerPath, targetFlag}
}

// TaskState is a consistent point-in-time view of a task. Readers see
// either the pre-finish state or the fully-finished state, never a torn
// one.
type TaskState struct {
	Started  time.Time
	Finished bool
	Output   string
	Failure  error
}

// Task is a schedulable unit wrapping a TaskSpec. The coordinator sets the
// start time at dispatch; the terminal fields are written exactly once by
// the worker that owns the task and read concurrently by the monitor loop
// and, after completion, by the aggregator.
type Task struct {
	Spec TaskSpec
	Name string

	mu    sync.Mutex
	state TaskState
}

// NewTask creates a task for the given spec. Tasks are never reused.
func NewTask(spec TaskSpec) *Task {
	return &Task{Spec: spec, Name: spec.Target}
}

// markStarted records the dispatch time. Called once by the coordinator.
func (t *Task) markStarted(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Started = now
}

// finish stores the captured output or failure and marks the task
// finished. A task transitions to finished exactly once.
func (t *Task) finish(output string, failure error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Finished {
		panic(fmt.Sprintf("task %s finished twice", t.Name))
	}
	t.state.Output = output
	t.state.Failure = failure
	t.state.Finished = true
}

// Snapshot returns a consistent copy of the task's current state.
func (t *Task) Snapshot() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
