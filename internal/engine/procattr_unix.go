// SPDX-License-Identifier: MPL-2.0

//go:build unix

package engine

import (
	"os/exec"
	"syscall"
)

// configureProcAttr places the child in its own process group so that a
// context cancellation tears down the whole pipeline, not just the shell.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}
