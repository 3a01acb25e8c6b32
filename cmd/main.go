package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	suiterunner "github.com/infra-ci/suite-runner"
	"github.com/infra-ci/suite-runner/exitcodes"
	"github.com/infra-ci/suite-runner/flags"
	"github.com/infra-ci/suite-runner/service"
)

var (
	Version   = "v0.3.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "suite-runner"
	app.Usage = "Parallel test-suite orchestrator"
	app.Description = "suite-runner discovers test suites, runs each in an isolated subprocess and aggregates the outcomes into a single pass/fail summary"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if suiterunner.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Test failures and count drift exit with code 1.
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	// Start telemetry
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	// An interrupt abandons in-flight subprocesses; already-finished tasks
	// still get classified and reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start healthz and metrics servers
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger := newLogger(ctx.String(flags.LogLevel.Name))
	log.SetDefault(logger)

	cfg, err := suiterunner.NewConfig(ctx, logger)
	if err != nil {
		return suiterunner.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	orch, err := suiterunner.New(cfg, Version)
	if err != nil {
		return suiterunner.NewRuntimeError(fmt.Errorf("failed to create orchestrator: %w", err))
	}

	return orch.Run(ctx.Context)
}

func newLogger(level string) log.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return log.NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
