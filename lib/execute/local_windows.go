// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package execute

import (
	"os/exec"
	"time"
)

// configureCancel wires context cancellation to kill the command.
// Windows has no SIGTERM equivalent for console children, so the grace
// period does not apply and cancellation kills immediately.
func configureCancel(cmd *exec.Cmd, _ time.Duration) {
	cmd.Cancel = func() error {
		return cmd.Process.Kill()
	}
}
