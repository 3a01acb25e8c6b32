package suiterunner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ethereum/go-ethereum/log"
	"github.com/infra-ci/suite-runner/flags"
	"github.com/infra-ci/suite-runner/runner"
)

const (
	// DefaultRunConfigFile is the run-config file looked up relative to the
	// working directory when no explicit path is given.
	DefaultRunConfigFile = "suite-runner.yaml"

	DefaultRunnerPath   = "scripts/suite_runner"
	DefaultCoverageTool = "coverage"
)

// RunConfig is the checked-in run configuration. ExpectedTestCount lives
// here, next to the code it describes, so that adding or removing a test
// suite is a config edit reviewed alongside the change; drift between this
// constant and the discovered total is a reported error on full runs.
type RunConfig struct {
	ExpectedTestCount int      `yaml:"expected_test_count"`
	Runner            string   `yaml:"runner,omitempty"`
	CoverageTool      string   `yaml:"coverage_tool,omitempty"`
	Exclude           []string `yaml:"exclude,omitempty"`
}

// Config holds the application configuration
type Config struct {
	WorkDir           string
	TestTarget        string // run exactly this target; dotted delimiter
	TestPath          string // restrict discovery to this subtree; slash delimiter
	Instrumented      bool   // wrap invocations with the coverage collector
	ExpectedTestCount int
	RunnerPath        string
	CoverageTool      string
	Exclude           []string
	PollInterval      time.Duration
	Log               log.Logger

	// CommandRunner overrides subprocess execution; nil means run real
	// commands in WorkDir. Tests inject fakes here.
	CommandRunner runner.CommandRunner

	// Out is where the console report is written; nil means stdout.
	Out io.Writer
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.Root()
	}

	target := ctx.String(flags.TestTarget.Name)
	path := ctx.String(flags.TestPath.Name)
	if target != "" && path != "" {
		return nil, &InvalidArgumentsError{Reason: "at most one of test-path and test-target should be specified"}
	}
	if path != "" && strings.Contains(path, ".") {
		return nil, &InvalidArgumentsError{Reason: "the delimiter in test-path should be a slash (/)"}
	}
	if target != "" && strings.Contains(target, "/") {
		return nil, &InvalidArgumentsError{Reason: "the delimiter in test-target should be a dot (.)"}
	}

	workDir, err := filepath.Abs(ctx.String(flags.WorkDir.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	runCfg, err := loadRunConfig(workDir, ctx.String(flags.RunConfig.Name), ctx.IsSet(flags.RunConfig.Name), logger)
	if err != nil {
		return nil, err
	}

	expected := runCfg.ExpectedTestCount
	if ctx.IsSet(flags.ExpectedCount.Name) {
		expected = ctx.Int(flags.ExpectedCount.Name)
	}
	filtered := target != "" || path != ""
	if !filtered && expected <= 0 {
		return nil, errors.New("expected test count is not configured; set it in the run config or pass --expected-count")
	}

	runnerPath := runCfg.Runner
	if ctx.IsSet(flags.RunnerPath.Name) {
		runnerPath = ctx.String(flags.RunnerPath.Name)
	}
	if runnerPath == "" {
		runnerPath = DefaultRunnerPath
	}
	coverageTool := runCfg.CoverageTool
	if ctx.IsSet(flags.CoverageTool.Name) {
		coverageTool = ctx.String(flags.CoverageTool.Name)
	}
	if coverageTool == "" {
		coverageTool = DefaultCoverageTool
	}

	if err := checkWorkDir(workDir, runnerPath); err != nil {
		return nil, err
	}

	return &Config{
		WorkDir:           workDir,
		TestTarget:        target,
		TestPath:          path,
		Instrumented:      ctx.Bool(flags.Instrumented.Name),
		ExpectedTestCount: expected,
		RunnerPath:        runnerPath,
		CoverageTool:      coverageTool,
		Exclude:           runCfg.Exclude,
		PollInterval:      ctx.Duration(flags.PollInterval.Name),
		Log:               logger,
	}, nil
}

// FilteredRun reports whether a specific subset was requested. Filtered
// runs skip the fixed expected-count check.
func (c *Config) FilteredRun() bool {
	return c.TestTarget != "" || c.TestPath != ""
}

// checkWorkDir refuses to run from a directory that does not carry the
// runner script; everything downstream assumes workDir-relative paths.
func checkWorkDir(workDir, runnerPath string) error {
	if _, err := os.Stat(filepath.Join(workDir, runnerPath)); err != nil {
		return fmt.Errorf("working directory %q does not contain the test runner %q: %w", workDir, runnerPath, err)
	}
	return nil
}

// loadRunConfig reads the yaml run config. A missing file is only an error
// when the path was given explicitly.
func loadRunConfig(workDir, path string, explicit bool, logger log.Logger) (*RunConfig, error) {
	if path == "" {
		path = DefaultRunConfigFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			logger.Debug("No run config file, using defaults", "path", path)
			return &RunConfig{}, nil
		}
		return nil, fmt.Errorf("reading run config: %w", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %q: %w", path, err)
	}
	logger.Debug("Run config loaded", "path", path, "expectedTestCount", cfg.ExpectedTestCount)
	return &cfg, nil
}
