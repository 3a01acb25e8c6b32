package suiterunner

import (
	"fmt"
	"time"

	"github.com/infra-ci/suite-runner/types"
)

// outcomeString returns a short marker for an outcome kind.
func outcomeString(kind types.OutcomeKind) string {
	switch kind {
	case types.OutcomeSuccess:
		return "✓ pass"
	case types.OutcomeNoTests:
		return "! no tests"
	case types.OutcomeCanceled:
		return "- canceled"
	default:
		return "✗ fail"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
