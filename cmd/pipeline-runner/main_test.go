// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raul-arabaolaza/pipeline-library/lib/buildenv"
)

func TestRootCommandTree(t *testing.T) {
	root := rootCommand(context.Background())

	want := []string{"run", "mvn", "stash", "restore", "fetch-war", "toolchains", "version"}
	if len(root.Subcommands) != len(want) {
		t.Fatalf("got %d subcommands, want %d", len(root.Subcommands), len(want))
	}
	for i, name := range want {
		if root.Subcommands[i].Name != name {
			t.Errorf("subcommand[%d] = %q, want %q", i, root.Subcommands[i].Name, name)
		}
	}
	for _, sub := range root.Subcommands {
		if sub.Summary == "" {
			t.Errorf("subcommand %q has no summary", sub.Name)
		}
	}
	if root.Persistent == nil {
		t.Error("root command has no persistent flags")
	}
	for _, name := range []string{"config", "verbose"} {
		if root.Persistent().Lookup(name) == nil {
			t.Errorf("persistent flags missing --%s", name)
		}
	}
}

// writeTestConfig writes a minimal valid config rooted in dir and
// returns its path.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	configPath := filepath.Join(dir, "runner.yaml")
	body := fmt.Sprintf(`paths:
  cache_dir: %s
  settings_dir: %s
workers:
  - name: builder-1
    labels: [linux]
`, filepath.Join(dir, "cache"), filepath.Join(dir, "settings"))
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath
}

func TestRequiredLabelsFlag(t *testing.T) {
	err := rootCommand(context.Background()).Execute([]string{"run", "make test"})
	if err == nil {
		t.Fatal("expected error for missing --labels")
	}
	if !strings.Contains(err.Error(), "--labels is required") {
		t.Errorf("missing --labels error: %q", err)
	}
}

func TestStashHonorsInvocationContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath := writeTestConfig(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rootCommand(ctx).Execute([]string{
		"stash", "things", "--config", configPath, "--dir", src,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestParseBindings(t *testing.T) {
	bindings, err := parseBindings([]string{"PROFILE=release", "EMPTY=", "URL=http://x?a=b"})
	if err != nil {
		t.Fatalf("parseBindings: %v", err)
	}
	want := []buildenv.Binding{
		buildenv.Var("PROFILE", "release"),
		buildenv.Var("EMPTY", ""),
		buildenv.Var("URL", "http://x?a=b"),
	}
	if len(bindings) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(bindings), len(want))
	}
	for i := range want {
		if bindings[i] != want[i] {
			t.Errorf("binding[%d] = %+v, want %+v", i, bindings[i], want[i])
		}
	}
}

func TestParseBindingsRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"NOVALUE", "=value", ""} {
		if _, err := parseBindings([]string{bad}); err == nil {
			t.Errorf("parseBindings(%q) = nil, want error", bad)
		}
	}
}
