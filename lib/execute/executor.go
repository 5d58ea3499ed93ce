// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package execute

import (
	"context"
	"fmt"
	"strings"

	"github.com/raul-arabaolaza/pipeline-library/lib/buildenv"
)

// Platform selects the command dialect of the worker a command runs
// on. It is a closed two-variant enum: call sites switch on it instead
// of sniffing the operating system at each dispatch point.
type Platform int

const (
	// Unix workers run commands through "sh -c" and use ":" as the
	// PATH list separator.
	Unix Platform = iota

	// Windows workers run commands through "cmd /C" and use ";" as
	// the PATH list separator.
	Windows
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case Unix:
		return "unix"
	case Windows:
		return "windows"
	default:
		return fmt.Sprintf("platform(%d)", int(p))
	}
}

// ListSeparator returns the platform's PATH-style list separator.
func (p Platform) ListSeparator() string {
	if p == Windows {
		return ";"
	}
	return ":"
}

// shellArgv returns the shell and arguments that run line on the
// platform.
func (p Platform) shellArgv(line string) []string {
	if p == Windows {
		return []string{"cmd", "/C", line}
	}
	return []string{"sh", "-c", line}
}

// Command is a single shell command with the environment bindings it
// must run under.
type Command struct {
	// Line is the full shell command line.
	Line string

	// Dir is the working directory. Empty means the executor
	// process's working directory.
	Dir string

	// Env is applied in order over the ambient environment. Later
	// bindings for the same name shadow earlier ones; Prepend
	// bindings join their value in front of the variable's current
	// value using the platform list separator.
	Env []buildenv.Binding

	// Platform selects the command dialect.
	Platform Platform
}

// ExitError reports a command that ran to completion with a non-zero
// exit status. Any other failure mode (spawn failure, signal, context
// cancellation) surfaces as its own error type.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Executor runs commands. Failures are opaque to callers beyond the
// ExitError distinction: nothing here retries or classifies.
type Executor interface {
	Run(ctx context.Context, command Command) error
}

// ComposeEnviron applies bindings in order over a snapshot of the
// ambient environment and returns the resulting KEY=VALUE slice.
// Existing variables keep their position; new variables append in
// first-application order. Prepend bindings resolve against the
// current effective value, so stacked PATH entries compose
// left-to-right with the latest prepend first.
func ComposeEnviron(base []string, bindings []buildenv.Binding, platform Platform) []string {
	names := make([]string, 0, len(base))
	values := make(map[string]string, len(base))
	for _, entry := range base {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := values[name]; !seen {
			names = append(names, name)
		}
		values[name] = value
	}

	for _, binding := range bindings {
		current, seen := values[binding.Name]
		if !seen {
			names = append(names, binding.Name)
		}
		if binding.Prepend && current != "" {
			values[binding.Name] = binding.Value + platform.ListSeparator() + current
		} else {
			values[binding.Name] = binding.Value
		}
	}

	environ := make([]string, 0, len(names))
	for _, name := range names {
		environ = append(environ, name+"="+values[name])
	}
	return environ
}
