// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/raul-arabaolaza/pipeline-library/lib/label"
)

// recordingScheduler captures Allocate calls and runs the body on a
// canned worker context.
type recordingScheduler struct {
	expressions []string
	worker      Context
	err         error
}

func (s *recordingScheduler) Allocate(ctx context.Context, expression string, body func(Context) error) error {
	s.expressions = append(s.expressions, expression)
	if s.err != nil {
		return s.err
	}
	return body(s.worker)
}

func mustParse(t *testing.T, input string) label.Set {
	t.Helper()
	set, err := label.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return set
}

func TestRunInPlaceWhenSatisfied(t *testing.T) {
	scheduler := &recordingScheduler{}
	guard := &Guard{Scheduler: scheduler}
	current := Context{
		Name:   "builder-1",
		Labels: map[string]bool{"linux": true, "docker": true},
	}

	calls := 0
	result, err := Run(context.Background(), guard, current, mustParse(t, "linux"), func(worker Context) (string, error) {
		calls++
		return worker.Name, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 {
		t.Errorf("work ran %d times, want 1", calls)
	}
	if result != "builder-1" {
		t.Errorf("work should run on the current worker, got %q", result)
	}
	if len(scheduler.expressions) != 0 {
		t.Errorf("no allocation expected, got %v", scheduler.expressions)
	}
}

func TestRunRedispatchesOnMissingLabel(t *testing.T) {
	scheduler := &recordingScheduler{worker: Context{Name: "big-builder"}}
	guard := &Guard{Scheduler: scheduler}
	current := Context{Name: "builder-1", Labels: map[string]bool{"a": true}}

	result, err := Run(context.Background(), guard, current, mustParse(t, "a,b"), func(worker Context) (string, error) {
		return worker.Name, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != "big-builder" {
		t.Errorf("work should run on the allocated worker, got %q", result)
	}
	if len(scheduler.expressions) != 1 || scheduler.expressions[0] != "a&&b" {
		t.Errorf("expected exactly one allocation of %q, got %v", "a&&b", scheduler.expressions)
	}
}

func TestRunRedispatchesWhenLabelsUnknown(t *testing.T) {
	scheduler := &recordingScheduler{worker: Context{Name: "w"}}
	guard := &Guard{Scheduler: scheduler}

	// Nil label map: the current worker's capabilities are unknown.
	_, err := Run(context.Background(), guard, Context{}, mustParse(t, "linux"), func(Context) (int, error) {
		return 0, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(scheduler.expressions) != 1 {
		t.Errorf("expected one allocation, got %v", scheduler.expressions)
	}
}

func TestRunConjunctionPreservesInputOrder(t *testing.T) {
	scheduler := &recordingScheduler{worker: Context{}}
	guard := &Guard{Scheduler: scheduler}

	_, err := Run(context.Background(), guard, Context{}, mustParse(t, "c, a ,b"), func(Context) (int, error) {
		return 0, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if scheduler.expressions[0] != "c&&a&&b" {
		t.Errorf("conjunction order: got %q, want %q", scheduler.expressions[0], "c&&a&&b")
	}
}

func TestRunSchedulerFailurePropagates(t *testing.T) {
	schedulerErr := errors.New("no worker matching linux&&gpu")
	guard := &Guard{Scheduler: &recordingScheduler{err: schedulerErr}}

	_, err := Run(context.Background(), guard, Context{}, mustParse(t, "linux,gpu"), func(Context) (int, error) {
		t.Fatal("work must not run when allocation fails")
		return 0, nil
	})
	if !errors.Is(err, schedulerErr) {
		t.Errorf("got %v, want the scheduler's error unmodified", err)
	}
}

func TestRunWorkErrorPropagates(t *testing.T) {
	workErr := errors.New("build failed")
	guard := &Guard{Scheduler: &recordingScheduler{}}
	current := Context{Labels: map[string]bool{"linux": true}}

	_, err := Run(context.Background(), guard, current, mustParse(t, "linux"), func(Context) (int, error) {
		return 0, workErr
	})
	if !errors.Is(err, workErr) {
		t.Errorf("got %v, want the work error unmodified", err)
	}
}

func TestRunRedispatchedWorkErrorPropagates(t *testing.T) {
	workErr := errors.New("tests failed on allocated worker")
	guard := &Guard{Scheduler: &recordingScheduler{worker: Context{Name: "w"}}}

	_, err := Run(context.Background(), guard, Context{}, mustParse(t, "linux"), func(Context) (int, error) {
		return 0, workErr
	})
	if !errors.Is(err, workErr) {
		t.Errorf("got %v, want the work error unmodified", err)
	}
}

func TestRunNilSchedulerFails(t *testing.T) {
	guard := &Guard{}

	_, err := Run(context.Background(), guard, Context{}, mustParse(t, "linux"), func(Context) (int, error) {
		t.Fatal("work must not run when no scheduler is configured")
		return 0, nil
	})
	if err == nil {
		t.Fatal("expected error from guard with no scheduler")
	}
}

func TestRunNilSchedulerStillRunsInPlace(t *testing.T) {
	guard := &Guard{}
	current := Context{Name: "agent-1", Labels: map[string]bool{"linux": true}}

	result, err := Run(context.Background(), guard, current, mustParse(t, "linux"), func(Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %d, want 42", result)
	}
}
