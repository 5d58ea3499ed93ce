// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/raul-arabaolaza/pipeline-library/lib/cli"
	"github.com/raul-arabaolaza/pipeline-library/lib/process"
	"github.com/raul-arabaolaza/pipeline-library/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--version" {
		fmt.Println(version.Info())
		return nil
	}

	// One signal-bound context for the whole invocation: SIGINT or
	// SIGTERM cancels pool waits, downloads, and running build
	// commands (which then get the SIGTERM/SIGKILL grace treatment).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCommand(ctx).Execute(args)
}

// rootCommand builds the complete command tree. ctx bounds every
// blocking operation the handlers start.
func rootCommand(ctx context.Context) *cli.Command {
	app := &app{ctx: ctx}
	return &cli.Command{
		Name: "pipeline-runner",
		Description: `Pipeline runner: affinity-guarded build steps with layered Java and
Maven environments.

Work declares the agent labels it requires. If the current agent
already carries them the step runs in place; otherwise exactly one
matching agent is allocated from the configured pool. Java and Maven
environments are composed from the configured toolchain installs, and
Maven invocations on managed infrastructure get the bundled settings
file injected automatically.`,
		Persistent: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pipeline-runner", pflag.ContinueOnError)
			flagSet.StringVar(&app.configPath, "config", "", "config file path (default: $PIPELINE_RUNNER_CONFIG)")
			flagSet.BoolVar(&app.verbose, "verbose", false, "enable debug logging")
			return flagSet
		},
		Subcommands: []*cli.Command{
			app.runCommand(),
			app.mvnCommand(),
			app.stashCommand(),
			app.restoreCommand(),
			app.fetchWarCommand(),
			app.toolchainsCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("pipeline-runner %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Run the unit tests on any Linux agent with JDK 11",
				Command:     "pipeline-runner run --labels linux --java 11 'make test'",
			},
			{
				Description: "Build with Maven on an agent carrying both labels",
				Command:     "pipeline-runner mvn --labels 'maven,linux' --java 11 clean verify",
			},
			{
				Description: "Stash build outputs for a later step",
				Command:     "pipeline-runner stash build-artifacts --dir target --glob '*.jar'",
			},
			{
				Description: "Restore them in a later step",
				Command:     "pipeline-runner restore build-artifacts --dir target",
			},
			{
				Description: "Fetch the application WAR for a release",
				Command:     "pipeline-runner fetch-war 2.426.1 --dest ./work",
			},
		},
	}
}
