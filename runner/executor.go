package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/acarl005/stripansi"
)

var _ CommandRunner = (*execRunner)(nil)

// CommandRunner executes a task invocation and returns its combined stdout
// and stderr as a single text blob. It blocks the calling worker until the
// process exits. Injected so tests never spawn real subprocesses.
type CommandRunner interface {
	CombinedOutput(ctx context.Context, argv []string) (string, error)
}

// CommandRunnerFunc adapts a function to the CommandRunner interface.
type CommandRunnerFunc func(ctx context.Context, argv []string) (string, error)

func (f CommandRunnerFunc) CombinedOutput(ctx context.Context, argv []string) (string, error) {
	return f(ctx, argv)
}

// ProcessError is returned when the subprocess exits nonzero. The combined
// output is preserved in the message so the failure grammar can still be
// parsed out of it during classification.
type ProcessError struct {
	ExitCode int
	Output   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("Error %d\n%s", e.ExitCode, e.Output)
}

// execRunner runs invocations with os/exec, capturing stdout and stderr
// into one buffer.
type execRunner struct {
	workDir string
}

// NewCommandRunner creates a CommandRunner that executes commands in the
// given working directory.
func NewCommandRunner(workDir string) (CommandRunner, error) {
	if workDir == "" {
		return nil, fmt.Errorf("workDir cannot be empty")
	}
	return &execRunner{workDir: workDir}, nil
}

func (r *execRunner) CombinedOutput(ctx context.Context, argv []string) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context cannot be nil")
	}
	if len(argv) == 0 {
		return "", fmt.Errorf("invocation cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.workDir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	runErr := cmd.Run()
	output := stripansi.Strip(buf.String())

	if runErr != nil {
		exitErr := &exec.ExitError{}
		if errors.As(runErr, &exitErr) {
			return output, &ProcessError{ExitCode: exitErr.ExitCode(), Output: output}
		}
		return output, fmt.Errorf("failed to run %s: %w", argv[0], runErr)
	}
	return output, nil
}
