// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential resolves credential identifiers to
// username/secret pairs. The binding mechanics (how a CI host injects
// secrets into a run) stay behind the Store interface; consumers such
// as the artifact fetcher only ever invoke Lookup.
package credential
