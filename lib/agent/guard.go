// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"errors"
	"log/slog"

	"github.com/raul-arabaolaza/pipeline-library/lib/label"
)

// Guard enforces agent affinity: work declared to require a label set
// either runs in place, when the current worker already satisfies it,
// or is redispatched through the scheduler to a worker that does.
type Guard struct {
	// Scheduler allocates matching workers for redispatch.
	Scheduler Scheduler

	// Logger records the in-place/redispatch decision. Nil means no
	// logging.
	Logger *slog.Logger
}

// Run executes work on a worker satisfying required.
//
// If current already advertises every required label, work runs in
// place, exactly once, with no scheduler involvement. Otherwise — the
// current labels are unknown or any label is missing — exactly one
// allocation is requested for the conjunction of all required labels,
// and work runs inside the allocated worker's context. A guard with no
// Scheduler can only run work in place; redispatch returns an error.
//
// Nothing is caught or retried: scheduler failures and work's own
// error both propagate unmodified.
func Run[T any](ctx context.Context, guard *Guard, current Context, required label.Set, work func(Context) (T, error)) (T, error) {
	if required.SatisfiedBy(current.Labels) {
		if guard.Logger != nil {
			guard.Logger.Debug("labels satisfied, running in place",
				"worker", current.Name, "required", required.Expression())
		}
		return work(current)
	}

	var result T
	if guard.Scheduler == nil {
		return result, errors.New("agent: guard has no scheduler for redispatch")
	}

	expression := required.Expression()
	if guard.Logger != nil {
		guard.Logger.Debug("labels not satisfied, redispatching",
			"worker", current.Name, "required", expression)
	}

	err := guard.Scheduler.Allocate(ctx, expression, func(worker Context) error {
		value, err := work(worker)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	return result, err
}
