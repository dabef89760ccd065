// Package tmuxexec implements the command executor boundary by shelling
// out to the tmux binary via os/exec.
package tmuxexec

import (
	"context"
	"os/exec"
	"strings"

	"github.com/paneguard/tmux-monitor/internal/errs"
)

// Result is the outcome of a successful command execution.
type Result struct {
	Stdout string
	Stderr string
}

// Executor runs argv-form commands against an external binary. The
// monitoring engine depends only on this interface, never on os/exec
// directly, so the cycle coordinator and handlers can be tested against a
// fake.
type Executor interface {
	Execute(ctx context.Context, argv []string) (Result, error)
}

// TmuxExecutor is the concrete Executor backing production use, invoking
// the tmux binary found on PATH.
type TmuxExecutor struct {
	// Bin overrides the binary name, for tests that stub a fake tmux
	// script onto PATH. Empty means "tmux".
	Bin string
}

// New returns a TmuxExecutor targeting the real tmux binary.
func New() *TmuxExecutor {
	return &TmuxExecutor{Bin: "tmux"}
}

// Execute runs argv[0] with argv[1:] as arguments under ctx, returning
// stdout/stderr on success or errs.CommandFailed on non-zero exit.
func (e *TmuxExecutor) Execute(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, &errs.EmptyInput{Field: "argv"}
	}

	bin := e.Bin
	if bin == "" {
		bin = "tmux"
	}

	cmd := exec.CommandContext(ctx, bin, argv...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, &errs.CommandFailed{
			Command: strings.Join(append([]string{bin}, argv...), " "),
			Stderr:  stderr.String(),
		}
	}

	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}
