// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package artifactcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// indexExtension is the file extension of stash index files.
const indexExtension = ".cbor"

// stashIndex is the persisted record of one stash: which relative
// paths it contains and which blobs hold their content.
type stashIndex struct {
	// Name is the stash name, repeated inside the file so an index
	// is self-describing when inspected directly.
	Name string `cbor:"name"`

	// StoredAt is the stash creation time in Unix seconds.
	StoredAt int64 `cbor:"stored_at"`

	// Entries lists the stashed files in stash order.
	Entries []indexEntry `cbor:"entries"`
}

// indexEntry records one stashed file.
type indexEntry struct {
	// Path is the slash-separated path relative to the stash root.
	Path string `cbor:"path"`

	// Digest is the hex BLAKE3 digest of the uncompressed content,
	// which is also the blob address.
	Digest string `cbor:"digest"`

	// Size is the uncompressed size in bytes.
	Size int64 `cbor:"size"`

	// Mode is the file's permission bits at stash time.
	Mode uint32 `cbor:"mode"`
}

// indexPath returns the on-disk path of a stash index. Stash names
// containing path separators are rejected at write time; this is a
// plain join.
func (c *Cache) indexPath(name string) string {
	return filepath.Join(c.root, "stashes", name+indexExtension)
}

// writeIndex persists an index atomically (temp file + rename).
func (c *Cache) writeIndex(name string, index stashIndex) error {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("artifactcache: invalid stash name %q", name)
	}

	data, err := cbor.Marshal(index)
	if err != nil {
		return fmt.Errorf("encoding stash index: %w", err)
	}

	path := c.indexPath(name)
	temp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("creating index temp file: %w", err)
	}
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return fmt.Errorf("writing stash index: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("closing stash index: %w", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("publishing stash index: %w", err)
	}
	return nil
}

// readIndex loads a stash index, translating a missing file into
// ErrNoStash.
func (c *Cache) readIndex(name string) (stashIndex, error) {
	data, err := os.ReadFile(c.indexPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return stashIndex{}, fmt.Errorf("%w: %q", ErrNoStash, name)
		}
		return stashIndex{}, fmt.Errorf("reading stash index %q: %w", name, err)
	}

	var index stashIndex
	if err := cbor.Unmarshal(data, &index); err != nil {
		return stashIndex{}, fmt.Errorf("decoding stash index %q: %w", name, err)
	}
	return index, nil
}
