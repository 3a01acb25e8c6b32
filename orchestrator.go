package suiterunner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/infra-ci/suite-runner/discovery"
	"github.com/infra-ci/suite-runner/metrics"
	"github.com/infra-ci/suite-runner/runner"
	"github.com/infra-ci/suite-runner/types"
)

// Orchestrator wires discovery, the concurrent executor, aggregation and
// reporting into a single run.
type Orchestrator struct {
	cfg      *Config
	version  string
	executor *runner.Executor
	reporter *Reporter
	result   *types.RunSummary
}

// New creates an orchestrator from a validated config.
func New(cfg *Config, version string) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	cmdRunner := cfg.CommandRunner
	if cmdRunner == nil {
		var err error
		cmdRunner, err = runner.NewCommandRunner(cfg.WorkDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create command runner: %w", err)
		}
	}

	executor, err := runner.NewExecutor(runner.Config{
		Runner:       cmdRunner,
		RunnerPath:   cfg.RunnerPath,
		CoverageTool: cfg.CoverageTool,
		PollInterval: cfg.PollInterval,
		Log:          cfg.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	return &Orchestrator{
		cfg:      cfg,
		version:  version,
		executor: executor,
		reporter: NewReporter(out, cfg.Log),
	}, nil
}

// Result returns the summary of the last run, nil before the first run.
func (o *Orchestrator) Result() *types.RunSummary {
	return o.result
}

// Run discovers targets, executes every task concurrently, classifies the
// results and renders the report. The report is always fully rendered
// before any aggregate failure is signaled; no task's line is ever omitted
// because of an unrelated task's error.
func (o *Orchestrator) Run(ctx context.Context) error {
	tracer := otel.Tracer("suite-runner")
	runID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "test-run", trace.WithAttributes(
		attribute.String("run.id", runID),
	))
	defer span.End()

	o.cfg.Log.Info("Starting test run", "run_id", runID, "version", o.version, "workdir", o.cfg.WorkDir)

	targets, err := discovery.FindTestTargets(o.cfg.WorkDir, o.cfg.TestPath, o.cfg.Exclude)
	if err != nil {
		metrics.RecordErrorDetails("discovery", err)
		return NewRuntimeError(fmt.Errorf("failed to discover test targets: %w", err))
	}
	targets = applyTargetFilter(targets, o.cfg.TestTarget)
	o.cfg.Log.Info("Discovered test targets", "count", len(targets))

	tasks := make([]*runner.Task, 0, len(targets))
	for _, target := range targets {
		tasks = append(tasks, runner.NewTask(runner.TaskSpec{
			Target:       target,
			Instrumented: o.cfg.Instrumented,
		}))
	}

	start := time.Now()
	runErr := o.executor.RunAll(ctx, tasks)
	if runErr != nil && !errors.Is(runErr, runner.ErrTaskExecutionFailed) {
		metrics.RecordErrorDetails("execute", runErr)
		return NewRuntimeError(runErr)
	}

	summary, err := runner.Aggregate(runID, tasks, o.cfg.ExpectedTestCount, time.Since(start))
	if err != nil {
		// The runner's output didn't match its contract. Surfaced, never
		// folded into a zero count.
		metrics.RecordErrorDetails("aggregate", err)
		return NewRuntimeError(err)
	}
	o.result = summary

	o.reporter.Render(summary, o.cfg.FilteredRun())
	o.reporter.RenderTable(summary)
	metrics.RecordRun(summary)

	verdict := o.verdict(summary, runErr)
	span.SetAttributes(
		attribute.Int("run.total_tests", summary.TotalCount),
		attribute.Bool("run.failed", verdict != nil),
	)
	o.cfg.Log.Info("Test run completed", "run_id", runID, "total", summary.TotalCount, "failed", verdict != nil)
	return verdict
}

// verdict turns the aggregate state into the process-level result, applied
// only after the report is rendered. A captured task error fails the run
// regardless of the count check; the expected-count check applies to full
// runs only.
func (o *Orchestrator) verdict(summary *types.RunSummary, runErr error) error {
	switch {
	case runErr != nil || summary.AnyTaskFailed:
		return NewTestFailureError(summary.String())
	case summary.TotalCount == 0:
		return NewTestFailureError("no tests were run")
	case !o.cfg.FilteredRun() && summary.TotalCount != summary.ExpectedCount:
		return &ExpectedCountMismatchError{Expected: summary.ExpectedCount, Actual: summary.TotalCount}
	}
	return nil
}

// applyTargetFilter narrows discovery to the requested single target. A
// target not present in the discovered set runs nothing.
func applyTargetFilter(targets []string, want string) []string {
	if want == "" {
		return targets
	}
	for _, t := range targets {
		if t == want {
			return []string{want}
		}
	}
	return nil
}
