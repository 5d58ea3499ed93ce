// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package execute runs shell commands under composed environment
// bindings.
//
// The Executor interface is the boundary the rest of the library
// programs against; [Local] is the in-process implementation. Platform
// is a closed Unix/Windows enum deciding shell dialect and PATH list
// separator — consumers never sniff the operating system themselves.
package execute
