// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package buildenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raul-arabaolaza/pipeline-library/lib/infra"
	"github.com/raul-arabaolaza/pipeline-library/lib/resource"
	"github.com/raul-arabaolaza/pipeline-library/lib/toolchain"
)

// DefaultJavaVersion is the JDK major version used when a request does
// not specify one. The application under test builds with JDK 8 by
// default; newer JDKs are opt-in per invocation.
const DefaultJavaVersion = 8

// Composer builds layered environment binding sequences for Java and
// Maven invocations. It is stateless: every call resolves toolchains
// fresh and identical inputs always produce structurally identical
// binding sequences.
type Composer struct {
	// Toolchains resolves tool identifiers to install roots.
	Toolchains toolchain.Resolver

	// Infra decides whether managed-infrastructure Maven settings are
	// injected. May be nil, in which case no settings are injected.
	Infra infra.Detector

	// Resources supplies the Maven settings resource. Nil means the
	// binary's embedded resources.
	Resources resource.Store

	// SettingsDir is where settings files are materialized. Empty
	// means the system temp directory.
	SettingsDir string
}

// JavaRequest parameterizes JavaEnv.
type JavaRequest struct {
	// JavaVersion is the JDK major version. Zero means
	// DefaultJavaVersion (8).
	JavaVersion int

	// Extra bindings are appended after the toolchain bindings so the
	// caller can override toolchain defaults (last-wins as interpreted
	// by the executor). Order is preserved.
	Extra []Binding
}

// MavenRequest parameterizes MavenEnv and MavenCommand.
type MavenRequest struct {
	// Options are the Maven command line options and goals, joined by
	// spaces into the invocation line.
	Options []string

	// JavaVersion is the JDK major version. Zero means
	// DefaultJavaVersion (8).
	JavaVersion int

	// Extra bindings are appended after all toolchain bindings.
	Extra []Binding
}

// Invocation is a composed command line plus the environment bindings
// it must run under. The command executor turns it into a process.
type Invocation struct {
	Line string
	Env  []Binding
}

// JavaEnv resolves the requested JDK and returns the binding sequence
// [JAVA_HOME, PATH+jdk-bin, ...Extra]. Toolchain resolution failures
// propagate as *toolchain.NotFoundError; no fallback JDK is
// substituted.
func (c *Composer) JavaEnv(req JavaRequest) ([]Binding, error) {
	version := req.JavaVersion
	if version == 0 {
		version = DefaultJavaVersion
	}

	home, err := c.Toolchains.Resolve(toolchain.JDK(version))
	if err != nil {
		return nil, err
	}

	bindings := make([]Binding, 0, 2+len(req.Extra))
	bindings = append(bindings,
		Var("JAVA_HOME", home),
		PathEntry(filepath.Join(home, "bin")),
	)
	bindings = append(bindings, req.Extra...)
	return bindings, nil
}

// MavenEnv resolves the Maven toolchain and layers it over JavaEnv.
// The Maven PATH binding is threaded through as the first extra of the
// Java layer, so the net order is [JAVA_HOME, PATH+jdk-bin,
// PATH+maven-bin, ...Extra] — caller extras stay last and can override
// everything.
func (c *Composer) MavenEnv(req MavenRequest) ([]Binding, error) {
	home, err := c.Toolchains.Resolve(toolchain.Maven)
	if err != nil {
		return nil, err
	}

	extra := make([]Binding, 0, 1+len(req.Extra))
	extra = append(extra, PathEntry(filepath.Join(home, "bin")))
	extra = append(extra, req.Extra...)

	return c.JavaEnv(JavaRequest{JavaVersion: req.JavaVersion, Extra: extra})
}

// MavenCommand composes a full Maven invocation. On managed
// infrastructure with an effective JDK newer than 7, the Maven
// settings resource is materialized and "-s <path>" is prepended to
// the options so the build uses the internal mirror. JDK 7 builds
// predate the mirror's TLS configuration and keep their defaults.
func (c *Composer) MavenCommand(req MavenRequest) (Invocation, error) {
	version := req.JavaVersion
	if version == 0 {
		version = DefaultJavaVersion
	}

	options := req.Options
	if version > 7 && c.Infra != nil && c.Infra.OnManagedInfra() {
		store := c.Resources
		if store == nil {
			store = resource.Embedded()
		}
		dir := c.SettingsDir
		if dir == "" {
			dir = os.TempDir()
		}
		settingsPath, err := resource.Materialize(store, resource.MavenSettings, dir)
		if err != nil {
			return Invocation{}, fmt.Errorf("materializing Maven settings: %w", err)
		}
		options = append([]string{"-s", settingsPath}, options...)
	}

	env, err := c.MavenEnv(MavenRequest{JavaVersion: version, Extra: req.Extra})
	if err != nil {
		return Invocation{}, err
	}

	line := "mvn"
	if len(options) > 0 {
		line += " " + strings.Join(options, " ")
	}
	return Invocation{Line: line, Env: env}, nil
}
