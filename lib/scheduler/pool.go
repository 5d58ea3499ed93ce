// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/raul-arabaolaza/pipeline-library/lib/agent"
	"github.com/raul-arabaolaza/pipeline-library/lib/clock"
	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
)

// ErrNoMatchingWorker is returned when no registered worker — busy or
// idle — can ever satisfy the requested label conjunction. Waiting
// would never succeed, so the failure is immediate.
var ErrNoMatchingWorker = errors.New("scheduler: no worker matches label expression")

// Worker describes a registered worker: a named execution slot
// advertising a fixed set of capability labels.
type Worker struct {
	// Name identifies the worker. Must be unique within a pool.
	Name string

	// Labels are the capability labels the worker advertises.
	Labels []string

	// Platform is the worker's command dialect.
	Platform execute.Platform
}

// Pool is an in-process implementation of agent.Scheduler over a fixed
// set of registered workers. Each worker runs one body at a time;
// Allocate blocks until an eligible worker is idle.
type Pool struct {
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.Mutex
	workers  []*poolWorker
	released chan struct{}
}

// poolWorker is a registered worker plus its occupancy state, guarded
// by Pool.mu.
type poolWorker struct {
	name     string
	labels   map[string]bool
	platform execute.Platform
	busy     bool
}

// NewPool builds a pool over the given workers. Worker names must be
// unique. A nil clk means the real clock; a nil logger disables
// logging.
func NewPool(workers []Worker, clk clock.Clock, logger *slog.Logger) (*Pool, error) {
	if len(workers) == 0 {
		return nil, errors.New("scheduler: pool requires at least one worker")
	}
	if clk == nil {
		clk = clock.Real()
	}

	pool := &Pool{
		clock:    clk,
		logger:   logger,
		released: make(chan struct{}),
	}
	seen := make(map[string]bool, len(workers))
	for _, worker := range workers {
		if worker.Name == "" {
			return nil, errors.New("scheduler: worker with empty name")
		}
		if seen[worker.Name] {
			return nil, fmt.Errorf("scheduler: duplicate worker name %q", worker.Name)
		}
		seen[worker.Name] = true

		labels := make(map[string]bool, len(worker.Labels))
		for _, l := range worker.Labels {
			labels[l] = true
		}
		pool.workers = append(pool.workers, &poolWorker{
			name:     worker.Name,
			labels:   labels,
			platform: worker.Platform,
		})
	}
	return pool, nil
}

// Allocate implements agent.Scheduler. It parses the conjunction
// expression, fails immediately with ErrNoMatchingWorker when no
// registered worker could ever satisfy it, and otherwise blocks until
// an eligible worker is idle. The wait has no internal timeout; ctx is
// the only way to abandon it.
//
// The body's error propagates unmodified. The worker is released when
// the body returns, whatever the outcome.
func (p *Pool) Allocate(ctx context.Context, expression string, body func(agent.Context) error) error {
	required, err := parseExpression(expression)
	if err != nil {
		return err
	}

	waitStart := p.clock.Now()
	worker, err := p.claim(ctx, required, expression)
	if err != nil {
		return err
	}
	if p.logger != nil {
		p.logger.Info("worker allocated",
			"worker", worker.name,
			"expression", expression,
			"waited", p.clock.Now().Sub(waitStart).String())
	}

	defer p.release(worker)
	return body(agent.Context{
		Name:     worker.name,
		Labels:   worker.labels,
		Platform: worker.platform,
	})
}

// claim blocks until an eligible worker is idle and marks it busy.
func (p *Pool) claim(ctx context.Context, required []string, expression string) (*poolWorker, error) {
	for {
		p.mu.Lock()
		matchable := false
		for _, worker := range p.workers {
			if eligible(worker, required) {
				matchable = true
				break
			}
		}
		if !matchable {
			p.mu.Unlock()
			return nil, fmt.Errorf("%w: %q", ErrNoMatchingWorker, expression)
		}

		if worker := pick(p.workers, required); worker != nil {
			worker.busy = true
			p.mu.Unlock()
			return worker, nil
		}

		// All eligible workers are busy. Snapshot the release channel
		// and wait for the next release or cancellation.
		released := p.released
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-released:
		}
	}
}

// release returns a worker to the pool and wakes all waiters.
func (p *Pool) release(worker *poolWorker) {
	p.mu.Lock()
	worker.busy = false
	close(p.released)
	p.released = make(chan struct{})
	p.mu.Unlock()
}

// eligible reports whether the worker advertises every required label,
// regardless of occupancy.
func eligible(worker *poolWorker, required []string) bool {
	for _, l := range required {
		if !worker.labels[l] {
			return false
		}
	}
	return true
}

// pick selects the idle eligible worker to claim, or nil when every
// eligible worker is busy. Among candidates the least capable worker
// wins — the one advertising the fewest labels — so that broadly
// capable workers stay free for requirements only they can satisfy.
// Ties break by name ascending for determinism.
func pick(workers []*poolWorker, required []string) *poolWorker {
	var candidates []*poolWorker
	for _, worker := range workers {
		if worker.busy || !eligible(worker, required) {
			continue
		}
		candidates = append(candidates, worker)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].labels) != len(candidates[j].labels) {
			return len(candidates[i].labels) < len(candidates[j].labels)
		}
		return candidates[i].name < candidates[j].name
	})
	return candidates[0]
}

// parseExpression splits a "&&" conjunction into its labels. The
// expression comes from label.Set.Expression, so an empty result is a
// caller error, not a scheduling condition.
func parseExpression(expression string) ([]string, error) {
	var required []string
	for _, fragment := range strings.Split(expression, "&&") {
		trimmed := strings.TrimSpace(fragment)
		if trimmed == "" {
			continue
		}
		required = append(required, trimmed)
	}
	if len(required) == 0 {
		return nil, fmt.Errorf("scheduler: empty label expression %q", expression)
	}
	return required, nil
}
