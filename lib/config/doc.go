// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the pipeline
// runner.
//
// Configuration is loaded from a single YAML file specified by:
//   - the PIPELINE_RUNNER_CONFIG environment variable, or
//   - the --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides. The
// only expansion performed is ${VAR} path expansion for portability.
package config
