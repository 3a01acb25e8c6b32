package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "SUITE_RUNNER"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	WorkDir = &cli.StringFlag{
		Name:    "workdir",
		Value:   ".",
		EnvVars: prefixEnvVars("WORKDIR"),
		Usage:   "Path to the repository root from which to discover and run tests",
	}
	TestTarget = &cli.StringFlag{
		Name:    "test-target",
		Value:   "",
		EnvVars: prefixEnvVars("TEST_TARGET"),
		Usage:   "Dotted module name of a single test suite to run (eg. 'core.domain.exp_test')",
	}
	TestPath = &cli.StringFlag{
		Name:    "test-path",
		Value:   "",
		EnvVars: prefixEnvVars("TEST_PATH"),
		Usage:   "Subdirectory (slash-delimited) to restrict discovery to",
	}
	Instrumented = &cli.BoolFlag{
		Name:    "generate-coverage-report",
		Value:   false,
		EnvVars: prefixEnvVars("GENERATE_COVERAGE_REPORT"),
		Usage:   "Run each suite under the coverage collector",
	}
	RunConfig = &cli.StringFlag{
		Name:    "run-config",
		Value:   "",
		EnvVars: prefixEnvVars("RUN_CONFIG"),
		Usage:   "Path to the run config file (default 'suite-runner.yaml' in the workdir)",
	}
	ExpectedCount = &cli.IntFlag{
		Name:    "expected-count",
		Value:   0,
		EnvVars: prefixEnvVars("EXPECTED_COUNT"),
		Usage:   "Expected total test count for full runs; overrides the run config",
	}
	RunnerPath = &cli.StringFlag{
		Name:    "runner",
		Value:   "",
		EnvVars: prefixEnvVars("RUNNER"),
		Usage:   "Path to the test-runner executable, relative to the workdir",
	}
	CoverageTool = &cli.StringFlag{
		Name:    "coverage-tool",
		Value:   "",
		EnvVars: prefixEnvVars("COVERAGE_TOOL"),
		Usage:   "Path to the coverage collector used with --generate-coverage-report",
	}
	PollInterval = &cli.DurationFlag{
		Name:    "poll-interval",
		Value:   5 * time.Second,
		EnvVars: prefixEnvVars("POLL_INTERVAL"),
		Usage:   "Interval between liveness reports for still-running suites",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}
)

var Flags = []cli.Flag{
	WorkDir,
	TestTarget,
	TestPath,
	Instrumented,
	RunConfig,
	ExpectedCount,
	RunnerPath,
	CoverageTool,
	PollInterval,
	LogLevel,
}
