// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"

	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
)

// Fatal writes "error: err" to stderr and exits. The exit code is the
// command's own exit code when err wraps an [execute.ExitError], and 1
// otherwise. Use it in main() for errors from run() where the
// structured logger may not be initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)

	var exitErr *execute.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		os.Exit(exitErr.Code)
	}
	os.Exit(1)
}
