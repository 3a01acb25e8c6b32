package runner

import (
	"time"

	"github.com/infra-ci/suite-runner/types"
)

// Aggregate classifies every task and builds the run summary. Tasks appear
// in the summary exactly once, in dispatch order; completion order never
// influences the result. Classification errors abort aggregation: they
// indicate the external runner violated its output contract, which must be
// surfaced rather than folded into a zero count.
func Aggregate(runID string, tasks []*Task, expectedCount int, duration time.Duration) (*types.RunSummary, error) {
	summary := &types.RunSummary{
		RunID:         runID,
		PerTask:       make([]types.TaskOutcome, 0, len(tasks)),
		ExpectedCount: expectedCount,
		Duration:      duration,
	}

	for _, task := range tasks {
		outcome, err := Classify(task)
		if err != nil {
			return nil, err
		}
		summary.PerTask = append(summary.PerTask, types.TaskOutcome{
			Target:  task.Name,
			Outcome: outcome,
		})
		summary.TotalCount += outcome.Count
		if task.Snapshot().Failure != nil {
			summary.AnyTaskFailed = true
		}
	}

	return summary, nil
}
