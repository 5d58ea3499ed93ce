// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/raul-arabaolaza/pipeline-library/lib/cli"
)

// stashCommand returns the "stash" subcommand: store files in the
// artifact cache under a named stash.
func (a *app) stashCommand() *cli.Command {
	var (
		dir  string
		glob string
		list bool
	)

	return &cli.Command{
		Name:    "stash",
		Summary: "Stash files in the artifact cache",
		Description: `Store the files matching --glob under --dir in the artifact cache,
keyed by the stash name. Restoring the same name in a later step (on
this host) reproduces the files with their permissions.

Stashing the same name again replaces the previous stash. Blobs are
content-addressed, so re-stashing unchanged files costs no extra
space.`,
		Usage: "pipeline-runner stash <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Stash the built JARs",
				Command:     "pipeline-runner stash build-artifacts --dir target --glob '*.jar'",
			},
			{
				Description: "List existing stashes",
				Command:     "pipeline-runner stash --list",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stash", pflag.ContinueOnError)
			flagSet.StringVar(&dir, "dir", ".", "directory to stash from")
			flagSet.StringVar(&glob, "glob", "*", "glob pattern selecting files under --dir")
			flagSet.BoolVar(&list, "list", false, "list existing stashes instead of stashing")
			return flagSet
		},
		Run: func(args []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}

			if list {
				names, err := rt.cache.Stashes()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("stash name required\n\nusage: pipeline-runner stash <name> [flags]")
			}
			return rt.cache.Stash(a.ctx, dir, glob, args[0])
		},
	}
}
