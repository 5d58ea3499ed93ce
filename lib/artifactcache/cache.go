// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package artifactcache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/raul-arabaolaza/pipeline-library/lib/clock"
)

// ErrNoStash is returned by Restore when the named stash does not
// exist in the cache.
var ErrNoStash = errors.New("artifactcache: no such stash")

// stashConcurrency bounds how many files are hashed and compressed in
// parallel during a stash. Disk-bound work saturates quickly; a small
// bound avoids thrashing without leaving cores idle.
const stashConcurrency = 4

// Cache is a content-addressed artifact cache on the local filesystem.
// File contents are zstd-compressed blobs named by their BLAKE3
// digest; a named stash is a CBOR index mapping relative paths to
// digests. Identical content across stashes shares one blob.
type Cache struct {
	root    string
	clock   clock.Clock
	logger  *slog.Logger
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New opens (creating if needed) a cache rooted at dir. A nil clk
// means the real clock; a nil logger disables logging.
func New(dir string, clk clock.Clock, logger *slog.Logger) (*Cache, error) {
	if clk == nil {
		clk = clock.Real()
	}
	for _, sub := range []string{"blobs", "stashes"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	// EncodeAll/DecodeAll on shared coders are safe for concurrent
	// use; one pair serves the whole cache.
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &Cache{
		root:    dir,
		clock:   clk,
		logger:  logger,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Has reports whether a stash with the given name exists.
func (c *Cache) Has(name string) bool {
	_, err := os.Stat(c.indexPath(name))
	return err == nil
}

// Stash stores every file matching pattern (relative to dir, in
// filepath.Glob syntax) under the given stash name, replacing any
// previous stash with that name. Files are hashed and compressed
// concurrently; the index is written last, atomically, so a failed
// stash never leaves a readable-but-incomplete index.
func (c *Cache) Stash(ctx context.Context, dir, pattern, name string) error {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}

	var paths []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return fmt.Errorf("stat %s: %w", match, err)
		}
		if info.Mode().IsRegular() {
			paths = append(paths, match)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("artifactcache: pattern %q matched no files in %s", pattern, dir)
	}

	entries := make([]indexEntry, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(stashConcurrency)
	for i, path := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			entry, err := c.storeFile(path, dir)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	index := stashIndex{
		Name:     name,
		StoredAt: c.clock.Now().Unix(),
		Entries:  entries,
	}
	if err := c.writeIndex(name, index); err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Info("stashed artifacts", "name", name, "files", len(entries))
	}
	return nil
}

// StashFile stores a single file under the given stash name. The
// index entry uses the file's base name, so Restore places it directly
// in the destination directory.
func (c *Cache) StashFile(ctx context.Context, path, name string) error {
	return c.Stash(ctx, filepath.Dir(path), filepath.Base(path), name)
}

// Restore rebuilds the named stash's files under dir, verifying every
// blob's digest on the way out. A verification failure means the cache
// is corrupt and the restore fails; nothing retries or repairs.
func (c *Cache) Restore(ctx context.Context, name, dir string) error {
	index, err := c.readIndex(name)
	if err != nil {
		return err
	}

	for _, entry := range index.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.restoreFile(entry, dir); err != nil {
			return fmt.Errorf("restoring %s from stash %q: %w", entry.Path, name, err)
		}
	}

	if c.logger != nil {
		c.logger.Info("restored artifacts", "name", name, "files", len(index.Entries), "dir", dir)
	}
	return nil
}

// Stashes returns the names of all stashes in the cache, sorted.
func (c *Cache) Stashes() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(c.root, "stashes", "*"+indexExtension))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		base := filepath.Base(match)
		names = append(names, base[:len(base)-len(indexExtension)])
	}
	return names, nil
}

// storeFile hashes and compresses one file into the blob store and
// returns its index entry. The path stored in the entry is relative
// to base.
func (c *Cache) storeFile(path, base string) (indexEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return indexEntry{}, fmt.Errorf("reading %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return indexEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	relative, err := filepath.Rel(base, path)
	if err != nil {
		return indexEntry{}, fmt.Errorf("relativizing %s: %w", path, err)
	}

	digest := blake3.Sum256(data)
	blobPath := c.blobPath(digest)
	if _, err := os.Stat(blobPath); err != nil {
		// New content. Compress and write via rename so concurrent
		// stashes of identical content cannot observe a partial blob.
		compressed := c.encoder.EncodeAll(data, nil)
		if err := os.MkdirAll(filepath.Dir(blobPath), 0o755); err != nil {
			return indexEntry{}, fmt.Errorf("creating blob directory: %w", err)
		}
		temp, err := os.CreateTemp(filepath.Dir(blobPath), ".blob-*")
		if err != nil {
			return indexEntry{}, fmt.Errorf("creating blob temp file: %w", err)
		}
		if _, err := temp.Write(compressed); err != nil {
			temp.Close()
			os.Remove(temp.Name())
			return indexEntry{}, fmt.Errorf("writing blob: %w", err)
		}
		if err := temp.Close(); err != nil {
			os.Remove(temp.Name())
			return indexEntry{}, fmt.Errorf("closing blob: %w", err)
		}
		if err := os.Rename(temp.Name(), blobPath); err != nil {
			os.Remove(temp.Name())
			return indexEntry{}, fmt.Errorf("publishing blob: %w", err)
		}
	}

	return indexEntry{
		Path:   filepath.ToSlash(relative),
		Digest: hex.EncodeToString(digest[:]),
		Size:   info.Size(),
		Mode:   uint32(info.Mode().Perm()),
	}, nil
}

// restoreFile decompresses one blob into dir, verifying its digest.
func (c *Cache) restoreFile(entry indexEntry, dir string) error {
	digestBytes, err := hex.DecodeString(entry.Digest)
	if err != nil || len(digestBytes) != 32 {
		return fmt.Errorf("malformed digest %q", entry.Digest)
	}
	var digest [32]byte
	copy(digest[:], digestBytes)

	compressed, err := os.ReadFile(c.blobPath(digest))
	if err != nil {
		return fmt.Errorf("reading blob: %w", err)
	}
	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("decompressing blob: %w", err)
	}
	if blake3.Sum256(data) != digest {
		return fmt.Errorf("blob digest mismatch for %s (cache corrupt)", entry.Path)
	}

	destination := filepath.Join(dir, filepath.FromSlash(entry.Path))
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	mode := os.FileMode(entry.Mode)
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(destination, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", destination, err)
	}
	return nil
}

// blobPath returns the on-disk path for a digest, fanned out by the
// first byte to keep directory sizes bounded.
func (c *Cache) blobPath(digest [32]byte) string {
	name := hex.EncodeToString(digest[:])
	return filepath.Join(c.root, "blobs", name[:2], name+".zst")
}
