// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package execute

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Local runs commands as child processes of the current process, with
// stdout and stderr inherited so build output streams straight
// through.
type Local struct {
	// Logger records command starts and failures. Nil means no
	// logging.
	Logger *slog.Logger

	// GracePeriod, when positive, asks the command to terminate on
	// context cancellation and forcibly kills it after the period.
	// Zero means immediate kill — build commands are ephemeral and
	// should not hold the pipeline hostage. Ignored on platforms
	// without a graceful termination signal.
	GracePeriod time.Duration
}

// Run executes the command. A non-zero exit status is returned as
// *ExitError; spawn failures and context cancellation propagate as-is.
//
// The shell is resolved via PATH, not hardcoded to an absolute path,
// so hermetic environments that place their shell off /bin still work.
// Cancellation kills the whole process tree; the mechanism is
// platform-specific (see configureCancel).
func (l *Local) Run(ctx context.Context, command Command) error {
	argv := command.Platform.shellArgv(command.Line)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = command.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = ComposeEnviron(os.Environ(), command.Env, command.Platform)
	configureCancel(cmd, l.GracePeriod)

	if l.Logger != nil {
		l.Logger.Info("running command", "line", command.Line, "platform", command.Platform.String())
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		if l.Logger != nil {
			l.Logger.Error("command failed", "line", command.Line, "exit", exitError.ExitCode())
		}
		return &ExitError{Code: exitError.ExitCode()}
	}

	// Non-exit errors: context cancellation, spawn failure, signal.
	return err
}
