// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package engine

import "os/exec"

func configureProcAttr(cmd *exec.Cmd) {}
