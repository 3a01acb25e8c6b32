// Package runner contains the concurrent task-execution engine: task
// representation, subprocess execution, parallel dispatch with liveness
// reporting, and classification of captured output into outcomes.
package runner
