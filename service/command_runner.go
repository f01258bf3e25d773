package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// CommandSpec describes a process to run
type CommandSpec struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration

	// CaptureOutput keeps combined stdout and stderr in the result
	CaptureOutput bool
}

// CommandResult describes a process that ran to completion
type CommandResult struct {
	ExitCode int
	Duration time.Duration
	Output   []byte
}

// Success reports a zero exit status
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner starts processes. A non-zero exit is reported through
// CommandResult.ExitCode; the error is reserved for spawn failures,
// timeouts and cancellation.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) (CommandResult, error)
}

// ExecCommandRunner runs processes with os/exec
type ExecCommandRunner struct{}

// NewExecCommandRunner creates a runner backed by os/exec
func NewExecCommandRunner() *ExecCommandRunner {
	return &ExecCommandRunner{}
}

// Run executes spec and waits for it to exit
func (r *ExecCommandRunner) Run(ctx context.Context, spec CommandSpec) (CommandResult, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir

	var output bytes.Buffer
	if spec.CaptureOutput {
		cmd.Stdout = &output
		cmd.Stderr = &output
	}

	start := time.Now()
	err := cmd.Run()
	result := CommandResult{
		Duration: time.Since(start),
		Output:   output.Bytes(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s: %w", spec.Name, ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to start %s: %w", spec.Name, err)
	}

	return result, nil
}
