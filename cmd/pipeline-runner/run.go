// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/raul-arabaolaza/pipeline-library/lib/agent"
	"github.com/raul-arabaolaza/pipeline-library/lib/buildenv"
	"github.com/raul-arabaolaza/pipeline-library/lib/cli"
	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
	"github.com/raul-arabaolaza/pipeline-library/lib/label"
)

// runCommand returns the "run" subcommand: execute a shell command on
// an agent matching the required labels, under a composed Java
// environment.
func (a *app) runCommand() *cli.Command {
	var (
		labels   string
		java     int
		envPairs []string
		dir      string
	)

	return &cli.Command{
		Name:    "run",
		Summary: "Run a command on a matching agent",
		Description: `Run a shell command on an agent carrying all of the required labels.
If the current agent already satisfies them the command runs in place;
otherwise exactly one matching agent is allocated from the pool and the
command runs there.

The command runs under a composed Java environment: JAVA_HOME points at
the configured JDK install and its bin directory is prepended to PATH.
Repeated --env flags append extra bindings after the toolchain ones, so
they win on conflicts.`,
		Usage: "pipeline-runner run --labels <labels> [flags] <command>",
		Examples: []cli.Example{
			{
				Description: "Run the integration tests on a Linux agent with Docker",
				Command:     "pipeline-runner run --labels 'linux,docker' 'make integration'",
			},
			{
				Description: "Override the build profile for this step",
				Command:     "pipeline-runner run --labels linux --java 17 --env PROFILE=release './gradlew build'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			flagSet.StringVar(&labels, "labels", "", "comma-separated labels the agent must carry (required)")
			flagSet.IntVar(&java, "java", 0, "JDK major version (default from config)")
			flagSet.StringArrayVar(&envPairs, "env", nil, "extra KEY=VALUE environment binding (repeatable)")
			flagSet.StringVar(&dir, "dir", "", "working directory for the command")
			return flagSet
		},
		RequiredFlags: []string{"labels"},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("command required\n\nusage: pipeline-runner run --labels <labels> [flags] <command>")
			}
			required, err := label.Parse(labels)
			if err != nil {
				return fmt.Errorf("--labels: %w", err)
			}
			extra, err := parseBindings(envPairs)
			if err != nil {
				return err
			}

			rt, err := a.runtime()
			if err != nil {
				return err
			}

			line := strings.Join(args, " ")
			ctx := a.ctx
			_, err = agent.Run(ctx, rt.guard, entryContext(), required,
				func(worker agent.Context) (struct{}, error) {
					env, err := rt.composer.JavaEnv(buildenv.JavaRequest{
						JavaVersion: rt.javaVersionOrDefault(java),
						Extra:       extra,
					})
					if err != nil {
						return struct{}{}, err
					}
					return struct{}{}, rt.executor.Run(ctx, execute.Command{
						Line:     line,
						Dir:      dir,
						Env:      env,
						Platform: worker.Platform,
					})
				})
			return err
		},
	}
}
