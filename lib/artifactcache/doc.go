// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifactcache stores build artifacts between pipeline runs.
//
// The cache is content-addressed: file contents become zstd-compressed
// blobs named by BLAKE3 digest, and a named stash is a small CBOR
// index of paths and digests. Restores verify every digest, so a
// corrupt cache fails loudly instead of producing a wrong build input.
//
// [Fetcher] layers resolve-or-download on top: a versioned
// distributable (the application WAR) is downloaded from the mirror at
// most once per host, checksum-verified, and served from the cache
// afterwards.
package artifactcache
