package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// DefaultPollInterval is the cadence of the coordinator's liveness report.
// It matches the 5 second poll the runner has always used; correctness
// never depends on it.
const DefaultPollInterval = 5 * time.Second

// ErrTaskExecutionFailed is returned by RunAll after all workers have been
// observed finished and at least one task recorded a failure. Every task
// remains individually inspectable regardless.
var ErrTaskExecutionFailed = errors.New("task execution failed")

// Executor runs a set of independent tasks concurrently to completion,
// with periodic liveness reporting, and collects possibly-failed results
// without letting one task's failure abort the others.
type Executor struct {
	runner       CommandRunner
	runnerPath   string
	coverageTool string
	pollInterval time.Duration
	progress     *ProgressReporter
	log          log.Logger
}

// Config contains executor configuration.
type Config struct {
	Runner       CommandRunner
	RunnerPath   string
	CoverageTool string
	PollInterval time.Duration
	Log          log.Logger
}

// NewExecutor creates an executor with validation.
func NewExecutor(cfg Config) (*Executor, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("command runner cannot be nil")
	}
	if cfg.RunnerPath == "" {
		return nil, fmt.Errorf("runner path cannot be empty")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	return &Executor{
		runner:       cfg.Runner,
		runnerPath:   cfg.RunnerPath,
		coverageTool: cfg.CoverageTool,
		pollInterval: cfg.PollInterval,
		progress:     NewProgressReporter(cfg.Log),
		log:          cfg.Log,
	}, nil
}

// RunAll dispatches every task to its own worker goroutine immediately.
// Fan-out is deliberately unbounded: the task count is bounded by the
// discovered suite count, and each worker spends its life blocked on a
// subprocess, not on CPU.
//
// The coordinator waits on a per-worker completion signal and, on a fixed
// tick, emits a liveness line for every still-running task. On context
// cancellation it stops waiting; abandoned tasks are left unfinished so
// they classify as canceled, while already-finished tasks keep their real
// outcomes.
func (e *Executor) RunAll(ctx context.Context, tasks []*Task) error {
	if len(tasks) == 0 {
		e.log.Debug("No tasks to run")
		return nil
	}

	e.log.Info("Dispatching tasks", "count", len(tasks))

	done := make(chan struct{}, len(tasks))
	for _, task := range tasks {
		task.markStarted(time.Now())
		go e.worker(ctx, task, done)
	}

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	remaining := len(tasks)
	for remaining > 0 {
		select {
		case <-done:
			remaining--
		case <-ticker.C:
			e.progress.Report(tasks)
		case <-ctx.Done():
			e.log.Warn("Interrupted, abandoning in-flight tasks", "remaining", remaining)
			return e.checkFailures(tasks)
		}
	}

	return e.checkFailures(tasks)
}

// worker executes a single task and stores its terminal state. A failure
// is captured on the task and never propagated past the worker boundary:
// one subprocess failing must not stop its siblings.
func (e *Executor) worker(ctx context.Context, task *Task, done chan<- struct{}) {
	argv := task.Spec.Invocation(e.runnerPath, e.coverageTool)
	output, err := e.runner.CombinedOutput(ctx, argv)

	if ctx.Err() != nil {
		// Abandoned by an interrupt. The task stays unfinished so it is
		// reported as canceled rather than as a torn failure.
		return
	}

	task.finish(output, err)
	elapsed := time.Since(task.Snapshot().Started)
	if err != nil {
		e.log.Error(fmt.Sprintf("ERROR %s: %.1f secs", task.Name, elapsed.Seconds()))
	} else {
		e.log.Info(fmt.Sprintf("FINISHED %s: %.1f secs", task.Name, elapsed.Seconds()))
	}

	done <- struct{}{}
}

func (e *Executor) checkFailures(tasks []*Task) error {
	for _, task := range tasks {
		if task.Snapshot().Failure != nil {
			return ErrTaskExecutionFailed
		}
	}
	return nil
}
