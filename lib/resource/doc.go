// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource reads named build resources (Maven settings,
// templates) and materializes them into files that build tools can
// consume.
//
// Resources come either from the binary itself ([Embedded]) or from a
// directory ([Dir]). [Materialize] names the written file after a
// digest of its content, making repeated materialization of the same
// content idempotent.
package resource
