package suiterunner

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum/go-ethereum/log"
	"github.com/infra-ci/suite-runner/types"
)

// Reporter renders the console report. The plain-text summary format is
// stable and consumed by CI scripts; the table is a human-friendly view on
// top of it.
type Reporter struct {
	out io.Writer
	log log.Logger
}

func NewReporter(out io.Writer, logger log.Logger) *Reporter {
	if logger == nil {
		logger = log.Root()
	}
	return &Reporter{out: out, log: logger}
}

// Render writes the banner, one line per task in dispatch order and the
// final verdict line.
func (r *Reporter) Render(summary *types.RunSummary, filtered bool) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "+------------------+")
	fmt.Fprintln(r.out, "| SUMMARY OF TESTS |")
	fmt.Fprintln(r.out, "+------------------+")
	fmt.Fprintln(r.out)

	for _, t := range summary.PerTask {
		fmt.Fprintln(r.out, taskLine(t))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, verdictLine(summary, filtered))
}

func taskLine(t types.TaskOutcome) string {
	switch t.Outcome.Kind {
	case types.OutcomeSuccess:
		return fmt.Sprintf("SUCCESS   %s: %d tests (%.1f secs)", t.Target, t.Outcome.Count, t.Outcome.Seconds)
	case types.OutcomeFailed:
		return fmt.Sprintf("FAILED    %s: %d errors, %d failures", t.Target, t.Outcome.Errors, t.Outcome.Failures)
	case types.OutcomeNoTests:
		return fmt.Sprintf("ERROR     %s: No tests found.", t.Target)
	default:
		return fmt.Sprintf("CANCELED  %s", t.Target)
	}
}

func verdictLine(summary *types.RunSummary, filtered bool) string {
	switch {
	case summary.TotalCount == 0:
		return "WARNING: No tests were run."
	case !filtered && summary.TotalCount != summary.ExpectedCount:
		return fmt.Sprintf("ERROR: Expected %d tests to be run, not %d.", summary.ExpectedCount, summary.TotalCount)
	default:
		word := "classes"
		if len(summary.PerTask) == 1 {
			word = "class"
		}
		return fmt.Sprintf("Successfully ran %d tests in %d test %s.", summary.TotalCount, len(summary.PerTask), word)
	}
}

// RenderTable prints the detailed per-target table, styled by overall
// status.
func (r *Reporter) RenderTable(summary *types.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("Test Run %s (%s)", summary.RunID, formatDuration(summary.Duration)))

	t.AppendHeader(table.Row{"Target", "Outcome", "Tests", "Errors", "Failures", "Time"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Target", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Failures", Align: text.AlignRight},
		{Name: "Time", Align: text.AlignRight},
	})

	for _, task := range summary.PerTask {
		o := task.Outcome
		timeCell := "-"
		if o.Kind == types.OutcomeSuccess {
			timeCell = fmt.Sprintf("%.1fs", o.Seconds)
		}
		t.AppendRow(table.Row{
			task.Target,
			outcomeString(o.Kind),
			o.Count,
			o.Errors,
			o.Failures,
			timeCell,
		})
	}

	stats := summary.Stats()
	if stats.Failed > 0 || stats.NoTests > 0 || stats.Canceled > 0 {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d targets", len(summary.PerTask)),
		summary.TotalCount,
		"",
		"",
		formatDuration(summary.Duration),
	})

	t.Render()
}
