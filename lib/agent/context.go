// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"

	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
)

// Context describes the worker a block of work is currently executing
// on. It is supplied explicitly by the caller — nothing in this
// package reads ambient process state.
type Context struct {
	// Name identifies the worker, for logging only.
	Name string

	// Labels is the capability label set advertised by the worker.
	// A nil map means the worker's labels are unknown, which the
	// affinity guard treats as "requirement not satisfied".
	Labels map[string]bool

	// Platform is the command dialect of the worker.
	Platform execute.Platform
}

// Scheduler allocates workers matching a label conjunction expression
// ("a&&b&&c") and runs a body on them. Allocate blocks until a
// matching worker is available; there is no internal timeout — callers
// bound the wait through ctx if they need one. Allocation failures
// (no worker class matches, ctx cancelled) propagate unmodified.
type Scheduler interface {
	Allocate(ctx context.Context, expression string, body func(Context) error) error
}
