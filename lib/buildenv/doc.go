// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildenv composes the layered environment variable bindings
// a build command runs under.
//
// Each layer adds its bindings and delegates down: MavenCommand builds
// on MavenEnv, which threads its PATH binding through JavaEnv as an
// extra. Caller-supplied extras always come last so they can shadow
// toolchain defaults under the executor's last-wins rule.
//
// Binding sequences are ephemeral and owned by the caller; the
// Composer keeps no state between calls.
package buildenv
