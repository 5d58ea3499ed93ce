// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/raul-arabaolaza/pipeline-library/lib/cli"
	"github.com/raul-arabaolaza/pipeline-library/lib/toolchain"
)

// toolchainsCommand returns the "toolchains" subcommand: print the
// configured tool installs.
func (a *app) toolchainsCommand() *cli.Command {
	return &cli.Command{
		Name:    "toolchains",
		Summary: "List configured toolchain installs",
		Description: `Print the configured tool identifiers and their install roots. Tools
requested by a build step but absent here fail the step immediately; no
fallback version is ever substituted.`,
		Usage: "pipeline-runner toolchains [flags]",
		Run: func(args []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}

			resolver := toolchain.Map(rt.cfg.Toolchains)
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			for _, tool := range resolver.Tools() {
				root, err := resolver.Resolve(tool)
				if err != nil {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\n", tool, root)
			}
			return tw.Flush()
		},
	}
}
