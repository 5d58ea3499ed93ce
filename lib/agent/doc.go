// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent decides where label-constrained work runs.
//
// [Run] is the affinity guard: work requiring labels L executes
// in place when the current worker's advertised labels cover L, and is
// otherwise redispatched through a [Scheduler] to a worker matching
// the conjunction of all of L. The "already satisfied" check is the
// one optimization this package performs — satisfied work never
// touches the scheduler.
package agent
