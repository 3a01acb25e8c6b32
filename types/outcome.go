package types

import (
	"fmt"
	"time"
)

// OutcomeKind represents the possible classifications of a finished (or
// abandoned) task.
type OutcomeKind string

const (
	OutcomeSuccess  OutcomeKind = "success"
	OutcomeFailed   OutcomeKind = "failed"
	OutcomeNoTests  OutcomeKind = "no-tests"
	OutcomeCanceled OutcomeKind = "canceled"
)

// Outcome captures the classified result of a single task.
type Outcome struct {
	Kind     OutcomeKind
	Count    int     // tests run; 0 for no-tests and canceled
	Seconds  float64 // reported runtime, success only
	Errors   int     // failed only
	Failures int     // failed only
}

// TaskOutcome pairs a target with its classified outcome.
type TaskOutcome struct {
	Target  string
	Outcome Outcome
}

// RunSummary captures the complete results of one run. PerTask holds every
// dispatched task exactly once, in dispatch order; TotalCount is the sum of
// the per-task counts.
type RunSummary struct {
	RunID         string
	PerTask       []TaskOutcome
	TotalCount    int
	ExpectedCount int
	AnyTaskFailed bool
	Duration      time.Duration
}

// Stats tallies per-kind outcome counts for a summary.
type Stats struct {
	Succeeded int
	Failed    int
	NoTests   int
	Canceled  int
}

// Stats computes the per-kind tallies over PerTask.
func (s *RunSummary) Stats() Stats {
	var stats Stats
	for _, t := range s.PerTask {
		switch t.Outcome.Kind {
		case OutcomeSuccess:
			stats.Succeeded++
		case OutcomeFailed:
			stats.Failed++
		case OutcomeNoTests:
			stats.NoTests++
		case OutcomeCanceled:
			stats.Canceled++
		}
	}
	return stats
}

// String renders a one-line digest of the run.
func (s *RunSummary) String() string {
	stats := s.Stats()
	return fmt.Sprintf("run %s: %d tests in %d targets (%d failed, %d no-tests, %d canceled)",
		s.RunID, s.TotalCount, len(s.PerTask), stats.Failed, stats.NoTests, stats.Canceled)
}
