// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package artifactcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raul-arabaolaza/pipeline-library/lib/clock"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := New(t.TempDir(), clock.Fake(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cache
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStashAndRestore(t *testing.T) {
	cache := newTestCache(t)
	source := t.TempDir()
	writeFile(t, source, "app.war", "war bytes")
	writeFile(t, source, "app.jar", "jar bytes")
	writeFile(t, source, "notes.txt", "not matched")

	ctx := context.Background()
	if err := cache.Stash(ctx, source, "app.*", "build-artifacts"); err != nil {
		t.Fatalf("Stash: %v", err)
	}
	if !cache.Has("build-artifacts") {
		t.Fatal("Has should report the new stash")
	}

	dest := t.TempDir()
	if err := cache.Restore(ctx, "build-artifacts", dest); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	war, err := os.ReadFile(filepath.Join(dest, "app.war"))
	if err != nil {
		t.Fatalf("reading restored file: %v", err)
	}
	if string(war) != "war bytes" {
		t.Errorf("restored content: got %q", war)
	}
	if _, err := os.Stat(filepath.Join(dest, "notes.txt")); !os.IsNotExist(err) {
		t.Error("unmatched file should not be restored")
	}
}

func TestStashNoMatches(t *testing.T) {
	cache := newTestCache(t)
	if err := cache.Stash(context.Background(), t.TempDir(), "*.war", "empty"); err == nil {
		t.Fatal("expected error when the pattern matches nothing")
	}
	if cache.Has("empty") {
		t.Error("failed stash must not leave an index behind")
	}
}

func TestRestoreUnknownStash(t *testing.T) {
	cache := newTestCache(t)
	err := cache.Restore(context.Background(), "never-stashed", t.TempDir())
	if !errors.Is(err, ErrNoStash) {
		t.Fatalf("got %v, want ErrNoStash", err)
	}
}

func TestStashReplacesPrevious(t *testing.T) {
	cache := newTestCache(t)
	source := t.TempDir()
	writeFile(t, source, "app.war", "version one")

	ctx := context.Background()
	if err := cache.Stash(ctx, source, "app.war", "war"); err != nil {
		t.Fatalf("Stash: %v", err)
	}
	writeFile(t, source, "app.war", "version two")
	if err := cache.Stash(ctx, source, "app.war", "war"); err != nil {
		t.Fatalf("Stash (second): %v", err)
	}

	dest := t.TempDir()
	if err := cache.Restore(ctx, "war", dest); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dest, "app.war"))
	if string(data) != "version two" {
		t.Errorf("restored content: got %q, want the replacing stash", data)
	}
}

func TestIdenticalContentSharesBlobs(t *testing.T) {
	cache := newTestCache(t)
	source := t.TempDir()
	writeFile(t, source, "copy-a.bin", "same bytes")
	writeFile(t, source, "copy-b.bin", "same bytes")

	if err := cache.Stash(context.Background(), source, "copy-*.bin", "copies"); err != nil {
		t.Fatalf("Stash: %v", err)
	}

	blobs, err := filepath.Glob(filepath.Join(cache.root, "blobs", "*", "*.zst"))
	if err != nil {
		t.Fatal(err)
	}
	if len(blobs) != 1 {
		t.Errorf("identical content should share one blob, found %d", len(blobs))
	}
}

func TestRestoreDetectsCorruption(t *testing.T) {
	cache := newTestCache(t)
	source := t.TempDir()
	writeFile(t, source, "app.war", "original bytes")

	ctx := context.Background()
	if err := cache.Stash(ctx, source, "app.war", "war"); err != nil {
		t.Fatalf("Stash: %v", err)
	}

	// Overwrite the blob with different (still decompressible) bytes.
	blobs, _ := filepath.Glob(filepath.Join(cache.root, "blobs", "*", "*.zst"))
	if len(blobs) != 1 {
		t.Fatalf("expected one blob, found %d", len(blobs))
	}
	tampered := cache.encoder.EncodeAll([]byte("tampered bytes"), nil)
	if err := os.WriteFile(blobs[0], tampered, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := cache.Restore(ctx, "war", t.TempDir()); err == nil {
		t.Fatal("expected digest mismatch error for tampered blob")
	}
}

func TestStashesListing(t *testing.T) {
	cache := newTestCache(t)
	source := t.TempDir()
	writeFile(t, source, "a.txt", "a")

	ctx := context.Background()
	if err := cache.Stash(ctx, source, "a.txt", "first"); err != nil {
		t.Fatal(err)
	}
	if err := cache.Stash(ctx, source, "a.txt", "second"); err != nil {
		t.Fatal(err)
	}

	names, err := cache.Stashes()
	if err != nil {
		t.Fatalf("Stashes: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Stashes: got %v, want two entries", names)
	}
}

func TestInvalidStashName(t *testing.T) {
	cache := newTestCache(t)
	source := t.TempDir()
	writeFile(t, source, "a.txt", "a")

	if err := cache.Stash(context.Background(), source, "a.txt", "../escape"); err == nil {
		t.Fatal("expected error for stash name with path separator")
	}
}
