package extractors

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner abstracts external tool invocation so extractors can be
// tested without the tools installed.
type CommandRunner interface {
	// Run executes the command and returns its stdout.
	// A non-zero exit status is returned as an error that includes stderr.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports whether the named tool is on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner is the production CommandRunner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner creates a CommandRunner that invokes real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns its stdout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// LookPath reports whether the named tool is on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
