package runner

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// ProgressReporter periodically logs a liveness line for every task that is
// still running. It is purely diagnostic: completion is signaled on the
// executor's done channel, never inferred from the report cadence.
type ProgressReporter struct {
	log log.Logger
}

// NewProgressReporter creates a progress reporter writing to the given
// logger.
func NewProgressReporter(logger log.Logger) *ProgressReporter {
	if logger == nil {
		logger = log.Root()
	}
	return &ProgressReporter{log: logger}
}

// Report logs one line per still-running task. Quiet when nothing is
// running.
func (p *ProgressReporter) Report(tasks []*Task) {
	lines := runningTaskLines(tasks)
	if len(lines) == 0 {
		return
	}
	p.log.Info("Tasks still running", "count", len(lines))
	for _, line := range lines {
		p.log.Info(line)
	}
}

// runningTaskLines renders "<name> (started <HH:MM:SS>)" for every
// dispatched task not yet observed finished.
func runningTaskLines(tasks []*Task) []string {
	var lines []string
	for _, task := range tasks {
		state := task.Snapshot()
		if state.Finished || state.Started.IsZero() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (started %s)", task.Name, state.Started.Format("15:04:05")))
	}
	return lines
}
