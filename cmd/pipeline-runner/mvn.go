// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/raul-arabaolaza/pipeline-library/lib/agent"
	"github.com/raul-arabaolaza/pipeline-library/lib/buildenv"
	"github.com/raul-arabaolaza/pipeline-library/lib/cli"
	"github.com/raul-arabaolaza/pipeline-library/lib/execute"
	"github.com/raul-arabaolaza/pipeline-library/lib/label"
)

// mvnCommand returns the "mvn" subcommand: a composed Maven invocation
// on an agent matching the required labels.
func (a *app) mvnCommand() *cli.Command {
	var (
		labels   string
		java     int
		envPairs []string
		dir      string
	)

	return &cli.Command{
		Name:    "mvn",
		Summary: "Run Maven with a composed environment",
		Description: `Run Maven on an agent carrying all of the required labels. The
positional arguments become the Maven command line (options and goals).
Separate Maven options starting with "-" from the runner's own flags
with "--".

The invocation runs with JAVA_HOME set to the configured JDK install
and with both the JDK and Maven bin directories prepended to PATH, JDK
first. On managed infrastructure, invocations targeting JDK 8+ get the
bundled settings file injected as "-s <path>"; JDK 7 and unmanaged
hosts run Maven's own settings resolution untouched.`,
		Usage: "pipeline-runner mvn --labels <labels> [flags] <options and goals>",
		Examples: []cli.Example{
			{
				Description: "Verify the build on JDK 11",
				Command:     "pipeline-runner mvn --labels maven --java 11 clean verify",
			},
			{
				Description: "Release with a deploy profile",
				Command:     "pipeline-runner mvn --labels 'maven,linux' -- -Prelease deploy",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("mvn", pflag.ContinueOnError)
			flagSet.StringVar(&labels, "labels", "", "comma-separated labels the agent must carry (required)")
			flagSet.IntVar(&java, "java", 0, "JDK major version (default from config)")
			flagSet.StringArrayVar(&envPairs, "env", nil, "extra KEY=VALUE environment binding (repeatable)")
			flagSet.StringVar(&dir, "dir", "", "working directory for the invocation")

			// Maven options like -Prelease must reach Run as
			// positionals, not be parsed as flags.
			flagSet.SetInterspersed(false)
			return flagSet
		},
		RequiredFlags: []string{"labels"},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("maven options and goals required\n\nusage: pipeline-runner mvn --labels <labels> [flags] <options and goals>")
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

			ctx := a.ctx
			_, err = agent.Run(ctx, rt.guard, entryContext(), required,
				func(worker agent.Context) (struct{}, error) {
					invocation, err := rt.composer.MavenCommand(buildenv.MavenRequest{
						Options:     args,
						JavaVersion: rt.javaVersionOrDefault(java),
						Extra:       extra,
					})
					if err != nil {
						return struct{}{}, err
					}
					return struct{}{}, rt.executor.Run(ctx, execute.Command{
						Line:     invocation.Line,
						Dir:      dir,
						Env:      invocation.Env,
						Platform: worker.Platform,
					})
				})
			return err
		},
	}
}
