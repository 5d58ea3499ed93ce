// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package infra detects whether the current run executes on managed
// (trusted) CI infrastructure by comparing the ambient controller URL
// against a configured trust list.
package infra
