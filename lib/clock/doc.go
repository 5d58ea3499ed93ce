// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts wall-clock time behind a small interface so
// that code waiting on or reading time can be tested deterministically.
//
// [Real] returns a Clock backed by the standard time package. [Fake]
// returns a manually advanced clock whose Advance and WaitForTimers
// methods let tests fire pending sleeps without real delays.
package clock
