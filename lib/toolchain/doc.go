// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolchain resolves named, versioned build tool installations
// (JDKs, Maven) to filesystem install roots.
//
// Resolution is a plain table lookup with no discovery and no
// fallback: an unknown identifier is a *NotFoundError and the build
// fails. Hermetic toolchains are registered in the configuration file,
// not found on PATH.
package toolchain
