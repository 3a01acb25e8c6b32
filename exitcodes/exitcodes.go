// Package exitcodes defines the standard exit codes used by suite-runner.
package exitcodes

// The process exits with:
//
//   - Success (0) when every task passed and the full-run count check held
//   - TestFailure (1) when a task failed, the expected-count check failed,
//     or no tests ran at all
//   - RuntimeErr (2) for operational failures: bad arguments, unreadable
//     working directory, or a runner that violated its output contract
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
