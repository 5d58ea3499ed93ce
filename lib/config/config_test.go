// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
)

const sampleConfig = `
paths:
  cache_dir: ${HOME}/cache
toolchains:
  jdk8: /opt/jdk/8
  jdk11: ${TOOL_ROOT:-/opt}/jdk/11
  mvn: /opt/maven
infra:
  trusted_urls:
    - https://ci.example.org/
mirror:
  base_url: https://mirror.example.org/war
  file_name: app.war
  credential_id: mirror
defaults:
  java_version: 11
workers:
  - name: linux-1
    labels: [linux, docker]
  - name: win-1
    labels: [windows]
    platform: windows
`

func loadSample(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runner.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return cfg
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", "/home/ci")
	cfg := loadSample(t)

	if cfg.Paths.CacheDir != "/home/ci/cache" {
		t.Errorf("cache_dir: got %q (expansion failed?)", cfg.Paths.CacheDir)
	}
	if cfg.Toolchains["jdk11"] != "/opt/jdk/11" {
		t.Errorf("jdk11 root: got %q (default expansion failed?)", cfg.Toolchains["jdk11"])
	}
	if cfg.Defaults.JavaVersion != 11 {
		t.Errorf("java_version: got %d, want 11", cfg.Defaults.JavaVersion)
	}
	if cfg.Mirror.FileName != "app.war" {
		t.Errorf("file_name: got %q", cfg.Mirror.FileName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadRequiresEnvVariable(t *testing.T) {
	t.Setenv(EnvVariable, "")
	if _, err := Load(); err == nil {
		t.Fatal("Load without the env variable should fail")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Defaults.JavaVersion != 8 {
		t.Errorf("default java_version: got %d, want 8", cfg.Defaults.JavaVersion)
	}
	if cfg.Credentials.Prefix != "PIPELINE_" {
		t.Errorf("default credential prefix: got %q", cfg.Credentials.Prefix)
	}
	if cfg.Mirror.FileName != "app.war" {
		t.Errorf("default mirror file name: got %q", cfg.Mirror.FileName)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := Default()
	cfg.Paths.CacheDir = ""
	cfg.Defaults.JavaVersion = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, fragment := range []string{"cache_dir", "java_version", "worker"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("validation error should mention %q: %v", fragment, err)
		}
	}
}

func TestValidateRejectsUnknownPlatform(t *testing.T) {
	cfg := Default()
	cfg.Workers = []WorkerConfig{{Name: "w", Platform: "beos"}}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "platform") {
		t.Errorf("expected platform validation error, got %v", err)
	}
}

func TestPoolWorkers(t *testing.T) {
	cfg := loadSample(t)
	workers := cfg.PoolWorkers()
	if len(workers) != 2 {
		t.Fatalf("got %d workers, want 2", len(workers))
	}
	if workers[0].Platform != execute.Unix {
		t.Errorf("linux-1 platform: got %v", workers[0].Platform)
	}
	if workers[1].Platform != execute.Windows {
		t.Errorf("win-1 platform: got %v", workers[1].Platform)
	}
}

func TestToolchainResolver(t *testing.T) {
	cfg := loadSample(t)
	root, err := cfg.ToolchainResolver().Resolve("mvn")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if root != "/opt/maven" {
		t.Errorf("mvn root: got %q", root)
	}
}
