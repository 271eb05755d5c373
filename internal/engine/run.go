// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/uuid"

	"shellac-cli/internal/issue"
)

// ChildExitError reports the exit code of the executed shell so callers can
// propagate it verbatim.
type ChildExitError struct {
	Code int
}

func (e *ChildExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// resolveShell picks the shell used to execute composed plans. The config
// override wins, then $SHELL, then bash, then sh.
func (e *Engine) resolveShell() (string, error) {
	if e.Config.Shell != "" {
		if path, err := exec.LookPath(e.Config.Shell); err == nil {
			return path, nil
		}
		return "", issue.NewErrorContext().
			WithOperation("resolve shell").
			WithResource(e.Config.Shell).
			WithSuggestion("set `shell` in the config file to an installed shell").
			BuildError()
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		if path, err := exec.LookPath(sh); err == nil {
			return path, nil
		}
	}
	for _, candidate := range []string{"bash", "sh"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", issue.NewErrorContext().
		WithOperation("resolve shell").
		WithSuggestion("install bash or sh, or set `shell` in the config file").
		BuildError()
}

// Run composes the plan for leaf and executes it through the shell with the
// process streams attached. Show mode prints the plan instead of running it.
func (e *Engine) Run(ctx context.Context, leaf []string, show bool) error {
	plan, err := e.Plan(leaf)
	if err != nil {
		return err
	}

	if show {
		fmt.Fprintln(e.Stdout, plan)
		return nil
	}

	shell, err := e.resolveShell()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	e.Logger.Debug("executing plan", "run_id", runID, "shell", shell, "plan", plan)

	cmd := exec.CommandContext(ctx, shell, "-c", plan)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	configureProcAttr(cmd)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e.Logger.Debug("plan exited", "run_id", runID, "code", exitErr.ExitCode())
			return &ChildExitError{Code: exitErr.ExitCode()}
		}
		return issue.NewErrorContext().
			WithOperation("execute command").
			WithResource(shell).
			Wrap(err).
			BuildError()
	}

	e.Logger.Debug("plan exited", "run_id", runID, "code", 0)
	return nil
}
