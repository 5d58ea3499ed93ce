// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package execute

import (
	"os/exec"
	"syscall"
	"time"
)

// configureCancel puts the command in its own process group and wires
// context cancellation to signal the whole group. Without Setpgid only
// the shell receives the signal — children survive and hold the
// inherited stdout/stderr descriptors open, blocking the parent from
// exiting.
//
// A positive grace period sends SIGTERM first and escalates to SIGKILL
// after the period; zero means immediate SIGKILL.
func configureCancel(cmd *exec.Cmd, gracePeriod time.Duration) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if gracePeriod <= 0 {
		cmd.Cancel = func() error {
			return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		return
	}

	cmd.Cancel = func() error {
		processGroupID := -cmd.Process.Pid
		if err := syscall.Kill(processGroupID, syscall.SIGTERM); err != nil {
			// SIGTERM failed (process group already gone), escalate.
			return syscall.Kill(processGroupID, syscall.SIGKILL)
		}
		go func() {
			time.Sleep(gracePeriod)
			// Best-effort: ESRCH from an already-dead process
			// group is harmless.
			_ = syscall.Kill(processGroupID, syscall.SIGKILL)
		}()
		return nil
	}
}
