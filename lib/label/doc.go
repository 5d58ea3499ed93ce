// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package label parses comma-separated capability label requirements
// into ordered sets and renders them as scheduler conjunction
// expressions ("a&&b&&c").
//
// Sets are ephemeral: constructed per call, never shared or persisted.
// Membership is exact token matching against a worker's advertised
// label set, not substring containment against a joined label string.
package label
