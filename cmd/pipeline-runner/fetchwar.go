// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/raul-arabaolaza/pipeline-library/lib/artifactcache"
	"github.com/raul-arabaolaza/pipeline-library/lib/cli"
)

// fetchWarCommand returns the "fetch-war" subcommand: resolve a
// versioned application WAR through the artifact cache.
func (a *app) fetchWarCommand() *cli.Command {
	var dest string

	return &cli.Command{
		Name:    "fetch-war",
		Summary: "Fetch a versioned application WAR",
		Description: `Place the application WAR for a version under --dest and print its
path. Versions already in the artifact cache are restored locally;
anything else is downloaded once from the configured mirror, verified
against the configured checksum when one is listed for the version, and
cached for later runs on this host.

Mirror authentication uses the credential named in the config, resolved
from the environment credential store.`,
		Usage: "pipeline-runner fetch-war <version> [flags]",
		Examples: []cli.Example{
			{
				Description: "Fetch a release WAR into the work directory",
				Command:     "pipeline-runner fetch-war 2.426.1 --dest ./work",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("fetch-war", pflag.ContinueOnError)
			flagSet.StringVar(&dest, "dest", ".", "directory to place the WAR in")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("version required\n\nusage: pipeline-runner fetch-war <version> [flags]")
			}
			version := args[0]

			rt, err := a.runtime()
			if err != nil {
				return err
			}
			if rt.cfg.Mirror.BaseURL == "" {
				return fmt.Errorf("no mirror configured (set mirror.base_url)")
			}

			fetcher := &artifactcache.Fetcher{
				Cache:        rt.cache,
				BaseURL:      rt.cfg.Mirror.BaseURL,
				FileName:     rt.cfg.Mirror.FileName,
				Credentials:  rt.creds,
				CredentialID: rt.cfg.Mirror.CredentialID,
				Logger:       rt.logger,
			}
			path, err := fetcher.War(a.ctx, version, rt.cfg.Mirror.Checksums[version], dest)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
