// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/raul-arabaolaza/pipeline-library/lib/cli"
)

// restoreCommand returns the "restore" subcommand: reproduce a named
// stash from the artifact cache.
func (a *app) restoreCommand() *cli.Command {
	var dir string

	return &cli.Command{
		Name:    "restore",
		Summary: "Restore a stash from the artifact cache",
		Description: `Reproduce the files of a named stash under --dir, with their original
relative paths and permissions. Every blob is digest-verified on the
way out; a corrupted cache entry fails the restore rather than
producing silently wrong files.`,
		Usage: "pipeline-runner restore <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Restore the built JARs into the deploy workspace",
				Command:     "pipeline-runner restore build-artifacts --dir deploy/input",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("restore", pflag.ContinueOnError)
			flagSet.StringVar(&dir, "dir", ".", "directory to restore into")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("stash name required\n\nusage: pipeline-runner restore <name> [flags]")
			}
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			return rt.cache.Restore(a.ctx, args[0], dir)
		},
	}
}
