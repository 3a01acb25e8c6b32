package suiterunner

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-ci/suite-runner/types"
)

func sampleSummary() *types.RunSummary {
	return &types.RunSummary{
		RunID: "run-1",
		PerTask: []types.TaskOutcome{
			{Target: "core.domain.a_test", Outcome: types.Outcome{Kind: types.OutcomeSuccess, Count: 7, Seconds: 1.2}},
			{Target: "core.domain.b_test", Outcome: types.Outcome{Kind: types.OutcomeFailed, Count: 5, Errors: 2, Failures: 1}},
			{Target: "core.domain.c_test", Outcome: types.Outcome{Kind: types.OutcomeNoTests}},
			{Target: "core.domain.d_test", Outcome: types.Outcome{Kind: types.OutcomeCanceled}},
		},
		TotalCount:    12,
		ExpectedCount: 320,
		AnyTaskFailed: true,
		Duration:      3 * time.Second,
	}
}

func TestRenderTaskLines(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, nil).Render(sampleSummary(), false)
	out := buf.String()

	assert.Contains(t, out, "| SUMMARY OF TESTS |")
	assert.Contains(t, out, "SUCCESS   core.domain.a_test: 7 tests (1.2 secs)")
	assert.Contains(t, out, "FAILED    core.domain.b_test: 2 errors, 1 failures")
	assert.Contains(t, out, "ERROR     core.domain.c_test: No tests found.")
	assert.Contains(t, out, "CANCELED  core.domain.d_test")
}

// Every dispatched task gets a line, in dispatch order, even when the run
// as a whole is failing.
func TestRenderPrintsEveryTaskInDispatchOrder(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, nil).Render(sampleSummary(), false)
	out := buf.String()

	posA := strings.Index(out, "core.domain.a_test")
	posB := strings.Index(out, "core.domain.b_test")
	posC := strings.Index(out, "core.domain.c_test")
	posD := strings.Index(out, "core.domain.d_test")
	require.True(t, posA >= 0 && posB >= 0 && posC >= 0 && posD >= 0)
	assert.True(t, posA < posB && posB < posC && posC < posD)
}

func TestRenderVerdictLine(t *testing.T) {
	tests := []struct {
		name     string
		summary  *types.RunSummary
		filtered bool
		want     string
	}{
		{
			name: "zero tests warns",
			summary: &types.RunSummary{
				PerTask: []types.TaskOutcome{{Target: "a_test", Outcome: types.Outcome{Kind: types.OutcomeNoTests}}},
			},
			want: "WARNING: No tests were run.",
		},
		{
			name:    "full run count drift",
			summary: sampleSummary(),
			want:    "ERROR: Expected 320 tests to be run, not 12.",
		},
		{
			name:     "filtered run skips the count check",
			summary:  sampleSummary(),
			filtered: true,
			want:     "Successfully ran 12 tests in 4 test classes.",
		},
		{
			name: "single class uses the singular",
			summary: &types.RunSummary{
				PerTask: []types.TaskOutcome{
					{Target: "a_test", Outcome: types.Outcome{Kind: types.OutcomeSuccess, Count: 3, Seconds: 0.5}},
				},
				TotalCount:    3,
				ExpectedCount: 3,
			},
			want: "Successfully ran 3 tests in 1 test class.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewReporter(&buf, nil).Render(tt.summary, tt.filtered)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, nil).RenderTable(sampleSummary())
	out := buf.String()

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "core.domain.a_test")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "4 targets")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "✓ pass", outcomeString(types.OutcomeSuccess))
	assert.Equal(t, "✗ fail", outcomeString(types.OutcomeFailed))
	assert.Equal(t, "! no tests", outcomeString(types.OutcomeNoTests))
	assert.Equal(t, "- canceled", outcomeString(types.OutcomeCanceled))
}
