// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package artifactcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/raul-arabaolaza/pipeline-library/lib/credential"
)

// Fetcher resolves versioned distributables (the application WAR)
// through the cache: a version already stashed is restored locally,
// anything else is downloaded once from the mirror, verified, and
// stashed for every later run on this host.
type Fetcher struct {
	// Cache stores downloaded distributables.
	Cache *Cache

	// BaseURL is the mirror base. The download URL is
	// BaseURL/<version>/<FileName>.
	BaseURL string

	// FileName is the distributable's file name on the mirror and on
	// disk after restore.
	FileName string

	// Credentials resolves the mirror credential when CredentialID is
	// set. Nil with an empty CredentialID means anonymous access.
	Credentials credential.Store

	// CredentialID names the mirror credential for basic auth. Empty
	// means anonymous access.
	CredentialID string

	// Client is the HTTP client for downloads. Nil means
	// http.DefaultClient.
	Client *http.Client

	// Logger records cache hits and downloads. Nil means no logging.
	Logger *slog.Logger
}

// War places the distributable for version in destDir and returns its
// path. checksum, when non-empty, is the expected hex SHA-256 of the
// download; a mismatch fails the fetch and nothing is cached. Cached
// versions are trusted — their integrity is covered by the cache's own
// digest verification.
func (f *Fetcher) War(ctx context.Context, version, checksum, destDir string) (string, error) {
	stashName := "war-" + version

	if !f.Cache.Has(stashName) {
		if err := f.download(ctx, version, checksum, stashName); err != nil {
			return "", err
		}
	} else if f.Logger != nil {
		f.Logger.Info("distributable cache hit", "version", version)
	}

	if err := f.Cache.Restore(ctx, stashName, destDir); err != nil {
		return "", err
	}
	return filepath.Join(destDir, f.FileName), nil
}

// download streams one distributable from the mirror into the cache.
func (f *Fetcher) download(ctx context.Context, version, checksum, stashName string) error {
	url := fmt.Sprintf("%s/%s/%s", f.BaseURL, version, f.FileName)
	if f.Logger != nil {
		f.Logger.Info("downloading distributable", "url", url)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}
	if f.CredentialID != "" {
		cred, err := f.Credentials.Lookup(f.CredentialID)
		if err != nil {
			return fmt.Errorf("resolving mirror credential: %w", err)
		}
		request.SetBasicAuth(cred.Username, cred.Secret)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", url, response.Status)
	}

	// Stream into a scratch directory, hashing on the way through.
	// The WAR is large; it never needs to be fully in memory. The file
	// carries its real name so Restore produces a usable file.
	scratch, err := os.MkdirTemp("", "distributable-*")
	if err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	path := filepath.Join(scratch, f.FileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	hasher := sha256.New()
	if _, err := io.Copy(file, io.TeeReader(response.Body, hasher)); err != nil {
		file.Close()
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing download file: %w", err)
	}

	if checksum != "" {
		actual := hex.EncodeToString(hasher.Sum(nil))
		if actual != checksum {
			return fmt.Errorf("checksum mismatch for %s: got %s, want %s", url, actual, checksum)
		}
	}

	return f.Cache.StashFile(ctx, path, stashName)
}
