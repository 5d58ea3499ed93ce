// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
	"github.com/raul-arabaolaza/pipeline-library/lib/scheduler"
	"github.com/raul-arabaolaza/pipeline-library/lib/toolchain"
)

// EnvVariable names the environment variable holding the config file
// path for Load.
const EnvVariable = "PIPELINE_RUNNER_CONFIG"

// Config is the master configuration for the pipeline runner.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Toolchains maps tool identifiers (jdk8, jdk11, mvn) to install
	// roots.
	Toolchains map[string]string `yaml:"toolchains"`

	// Infra configures managed-infrastructure detection.
	Infra InfraConfig `yaml:"infra"`

	// Mirror configures the distributable mirror.
	Mirror MirrorConfig `yaml:"mirror"`

	// Credentials configures the environment credential store.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Defaults configures per-invocation defaults.
	Defaults DefaultsConfig `yaml:"defaults"`

	// Workers are the workers registered in the local pool.
	Workers []WorkerConfig `yaml:"workers"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// CacheDir is the artifact cache root.
	CacheDir string `yaml:"cache_dir"`

	// SettingsDir is where Maven settings files are materialized.
	SettingsDir string `yaml:"settings_dir"`
}

// InfraConfig configures managed-infrastructure detection.
type InfraConfig struct {
	// TrustedURLs are the controller URLs operated as managed
	// infrastructure.
	TrustedURLs []string `yaml:"trusted_urls"`
}

// MirrorConfig configures where versioned distributables are
// downloaded from.
type MirrorConfig struct {
	// BaseURL is the mirror base; the download URL is
	// base_url/<version>/<file_name>.
	BaseURL string `yaml:"base_url"`

	// FileName is the distributable's file name.
	// Default: app.war
	FileName string `yaml:"file_name"`

	// CredentialID names the credential for mirror basic auth.
	// Empty means anonymous access.
	CredentialID string `yaml:"credential_id"`

	// Checksums maps versions to expected hex SHA-256 digests.
	// Versions absent from the map are fetched unverified.
	Checksums map[string]string `yaml:"checksums"`
}

// CredentialsConfig configures the environment credential store.
type CredentialsConfig struct {
	// Prefix is prepended to credential identifiers when reading
	// environment variables. Default: PIPELINE_
	Prefix string `yaml:"prefix"`
}

// DefaultsConfig configures per-invocation defaults.
type DefaultsConfig struct {
	// JavaVersion is the JDK major version used when an invocation
	// does not specify one. Default: 8
	JavaVersion int `yaml:"java_version"`
}

// WorkerConfig describes one worker in the local pool.
type WorkerConfig struct {
	// Name identifies the worker. Must be unique.
	Name string `yaml:"name"`

	// Labels are the capability labels the worker advertises.
	Labels []string `yaml:"labels"`

	// Platform is "unix" or "windows". Default: unix
	Platform string `yaml:"platform"`
}

// Default returns the default configuration. These defaults make every
// field a sensible zero-value base for the config file to override;
// the file itself is still required — there is no zero-config mode.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	cacheDir := filepath.Join(homeDir, ".cache", "pipeline-runner")

	return &Config{
		Paths: PathsConfig{
			CacheDir:    cacheDir,
			SettingsDir: filepath.Join(cacheDir, "settings"),
		},
		Mirror: MirrorConfig{
			FileName: "app.war",
		},
		Credentials: CredentialsConfig{
			Prefix: "PIPELINE_",
		},
		Defaults: DefaultsConfig{
			JavaVersion: 8,
		},
	}
}

// Load loads configuration from the PIPELINE_RUNNER_CONFIG environment
// variable. There are no fallbacks or discovery: if the variable is
// not set, Load fails. This keeps configuration deterministic and
// auditable.
func Load() (*Config, error) {
	path := os.Getenv(EnvVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your config file, or use the --config flag", EnvVariable)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The file is
// the single source of truth; environment variables do not override
// its values. The only expansion performed is ${VAR} path expansion
// for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// configured paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.CacheDir = expandVars(c.Paths.CacheDir, vars)
	c.Paths.SettingsDir = expandVars(c.Paths.SettingsDir, vars)
	for tool, root := range c.Toolchains {
		c.Toolchains[tool] = expandVars(root, vars)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.CacheDir == "" {
		errs = append(errs, fmt.Errorf("paths.cache_dir is required"))
	}
	if c.Defaults.JavaVersion <= 0 {
		errs = append(errs, fmt.Errorf("defaults.java_version must be positive"))
	}
	if len(c.Workers) == 0 {
		errs = append(errs, fmt.Errorf("at least one worker is required"))
	}
	for _, worker := range c.Workers {
		if worker.Name == "" {
			errs = append(errs, fmt.Errorf("worker with empty name"))
		}
		if _, err := parsePlatform(worker.Platform); err != nil {
			errs = append(errs, fmt.Errorf("worker %q: %w", worker.Name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ToolchainResolver returns the resolver over the configured
// installations.
func (c *Config) ToolchainResolver() toolchain.Resolver {
	return toolchain.Map(c.Toolchains)
}

// PoolWorkers converts the configured workers into scheduler
// registrations. Call Validate first; unknown platform strings map to
// Unix here.
func (c *Config) PoolWorkers() []scheduler.Worker {
	workers := make([]scheduler.Worker, 0, len(c.Workers))
	for _, worker := range c.Workers {
		platform, _ := parsePlatform(worker.Platform)
		workers = append(workers, scheduler.Worker{
			Name:     worker.Name,
			Labels:   worker.Labels,
			Platform: platform,
		})
	}
	return workers
}

// parsePlatform maps a config platform string to the execute enum.
// Empty means Unix.
func parsePlatform(name string) (execute.Platform, error) {
	switch name {
	case "", "unix":
		return execute.Unix, nil
	case "windows":
		return execute.Windows, nil
	default:
		return execute.Unix, fmt.Errorf("invalid platform %q (want unix or windows)", name)
	}
}

// EnsurePaths creates the configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.CacheDir, c.Paths.SettingsDir} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
