// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Command pipeline-runner executes affinity-guarded build steps with
// layered Java and Maven environments.
//
// Configuration comes from a single YAML file named by the
// PIPELINE_RUNNER_CONFIG environment variable or the --config flag: it
// declares the toolchain installs, the worker pool, the artifact cache
// location, the distributable mirror, and the managed-infrastructure
// controller URLs.
//
// Subcommands:
//
//   - run: run a shell command on an agent matching the required
//     labels, under a composed Java environment
//   - mvn: run Maven with JDK and Maven on PATH and, on managed
//     infrastructure, the bundled settings file injected
//   - stash / restore: move files between steps through the
//     content-addressed artifact cache
//   - fetch-war: resolve a versioned application WAR through the cache
//   - toolchains: list the configured tool installs
package main
