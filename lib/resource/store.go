// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
)

// MavenSettings is the name of the Maven settings resource injected
// into invocations on managed infrastructure.
const MavenSettings = "maven-settings.xml"

//go:embed files
var embeddedFiles embed.FS

// Store provides read access to named build resources (settings files,
// templates) that must be materialized on disk before a tool can
// consume them.
type Store interface {
	// Read returns the contents of the named resource. The name is a
	// plain file name, not a path.
	Read(name string) ([]byte, error)
}

// Embedded returns the Store of resources compiled into the binary.
// This is the default source for managed-infrastructure settings: the
// binary carries its own copy so runs do not depend on a writable or
// pre-provisioned workspace.
func Embedded() Store {
	sub, err := fs.Sub(embeddedFiles, "files")
	if err != nil {
		// The files directory is part of the build; a failure here is
		// a broken binary, not a runtime condition.
		panic(fmt.Sprintf("resource: embedded files missing: %v", err))
	}
	return fsStore{fsys: sub}
}

// Dir returns a Store reading resources from the given directory.
// It overrides nothing by itself; callers choose between Dir and
// Embedded explicitly.
func Dir(path string) Store {
	return fsStore{fsys: os.DirFS(path)}
}

type fsStore struct {
	fsys fs.FS
}

func (s fsStore) Read(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", name, err)
	}
	return data, nil
}

// Materialize writes the named resource into dir and returns the
// resulting path. The file name embeds a digest of the content, so
// materializing identical content is idempotent: the same path comes
// back and an existing file is reused without rewriting.
func Materialize(store Store, name string, dir string) (string, error) {
	data, err := store.Read(name)
	if err != nil {
		return "", err
	}

	digest := blake3.Sum256(data)
	extension := filepath.Ext(name)
	base := strings.TrimSuffix(name, extension)
	path := filepath.Join(dir, fmt.Sprintf("%s-%s%s", base, hex.EncodeToString(digest[:6]), extension))

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating resource directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("materializing resource %q: %w", name, err)
	}
	return path, nil
}
