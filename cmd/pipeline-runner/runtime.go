// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/raul-arabaolaza/pipeline-library/lib/agent"
	"github.com/raul-arabaolaza/pipeline-library/lib/artifactcache"
	"github.com/raul-arabaolaza/pipeline-library/lib/buildenv"
	"github.com/raul-arabaolaza/pipeline-library/lib/clock"
	"github.com/raul-arabaolaza/pipeline-library/lib/config"
	"github.com/raul-arabaolaza/pipeline-library/lib/credential"
	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
	"github.com/raul-arabaolaza/pipeline-library/lib/infra"
	"github.com/raul-arabaolaza/pipeline-library/lib/resource"
	"github.com/raul-arabaolaza/pipeline-library/lib/scheduler"
)

// cancelGracePeriod is how long a cancelled build command gets to shut
// down after SIGTERM before SIGKILL.
const cancelGracePeriod = 10 * time.Second

// app carries the state every subcommand shares: the signal-bound
// invocation context and the values of the persistent --config and
// --verbose flags declared on the root command.
type app struct {
	ctx        context.Context
	configPath string
	verbose    bool
}

// runtime builds the component graph from the flags parsed so far.
func (a *app) runtime() (*runtime, error) {
	return newRuntime(a.configPath, a.verbose)
}

// runtime wires the configured components together for command
// handlers. Everything hangs off the loaded config; construction fails
// fast on invalid configuration so handlers never see a half-built
// runtime.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *scheduler.Pool
	guard    *agent.Guard
	composer *buildenv.Composer
	executor *execute.Local
	cache    *artifactcache.Cache
	creds    credential.Store
}

// newRuntime loads configuration from configPath (or the
// PIPELINE_RUNNER_CONFIG environment variable when empty) and builds
// the component graph.
func newRuntime(configPath string, verbose bool) (*runtime, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}

	pool, err := scheduler.NewPool(cfg.PoolWorkers(), clock.Real(), logger)
	if err != nil {
		return nil, fmt.Errorf("building worker pool: %w", err)
	}

	cache, err := artifactcache.New(cfg.Paths.CacheDir, clock.Real(), logger)
	if err != nil {
		return nil, fmt.Errorf("opening artifact cache: %w", err)
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		guard:  &agent.Guard{Scheduler: pool, Logger: logger},
		composer: &buildenv.Composer{
			Toolchains:  cfg.ToolchainResolver(),
			Infra:       infra.FromEnvironment(cfg.Infra.TrustedURLs),
			Resources:   resource.Embedded(),
			SettingsDir: cfg.Paths.SettingsDir,
		},
		executor: &execute.Local{Logger: logger, GracePeriod: cancelGracePeriod},
		cache:    cache,
		creds:    credential.Env{Prefix: cfg.Credentials.Prefix},
	}, nil
}

// entryContext is the agent context of the runner process itself. Its
// labels are unknown, so any label requirement redispatches through
// the pool.
func entryContext() agent.Context {
	platform := execute.Unix
	if goruntime.GOOS == "windows" {
		platform = execute.Windows
	}
	hostname, _ := os.Hostname()
	return agent.Context{Name: hostname, Platform: platform}
}

// javaVersionOrDefault resolves the --java flag against the configured
// default.
func (r *runtime) javaVersionOrDefault(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return r.cfg.Defaults.JavaVersion
}

// parseBindings turns repeated KEY=VALUE --env flag values into
// environment bindings.
func parseBindings(pairs []string) ([]buildenv.Binding, error) {
	bindings := make([]buildenv.Binding, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := cutPair(pair)
		if !ok {
			return nil, fmt.Errorf("invalid --env value %q (want KEY=VALUE)", pair)
		}
		bindings = append(bindings, buildenv.Var(name, value))
	}
	return bindings, nil
}

func cutPair(pair string) (name, value string, ok bool) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '=' {
			return pair[:i], pair[i+1:], i > 0
		}
	}
	return "", "", false
}
