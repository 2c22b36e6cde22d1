package ldaptool

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	apperrors "ldap-seeder/pkg/errors"
)

// Result is the outcome of a finished external command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner runs an external command to completion.
//
// A command that runs and exits non-zero is not an error: the exit code is
// reported in Result. Errors are reserved for commands that could not be
// started (*errors.ToolError) or did not finish before ctx expired
// (*errors.TimeoutError). On timeout the partial output is returned along
// with the error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// ExecRunner runs commands with os/exec, capturing stdout and stderr.
type ExecRunner struct {
	// WaitDelay bounds how long Run waits for output pipes after the process
	// is killed on timeout.
	WaitDelay time.Duration
}

// NewExecRunner returns an ExecRunner with a one second wait delay.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{WaitDelay: time.Second}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, apperrors.NewTimeoutError(name, timeoutOf(ctx, start))
		}
		return res, apperrors.NewToolError(name, -1, res.Stderr, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return nil, apperrors.NewToolError(name, -1, "", err)
}

func timeoutOf(ctx context.Context, start time.Time) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return deadline.Sub(start).Round(time.Millisecond)
	}
	return 0
}
