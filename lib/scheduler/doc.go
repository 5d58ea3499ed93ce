// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package scheduler provides an in-process worker pool implementing
// agent.Scheduler.
//
// Workers are registered up front with fixed capability labels and a
// capacity of one body at a time. Allocation against a label
// conjunction fails immediately when no registered worker could ever
// match, and otherwise blocks — cancellable only through the caller's
// context — until an eligible worker is idle. Worker selection prefers
// the least capable satisfying worker so broadly labeled workers stay
// available for the requirements only they can meet.
package scheduler
