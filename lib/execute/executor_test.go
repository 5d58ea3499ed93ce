// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package execute

import (
	"strings"
	"testing"

	"github.com/raul-arabaolaza/pipeline-library/lib/buildenv"
)

func TestComposeEnvironLastWins(t *testing.T) {
	base := []string{"HOME=/home/ci", "LANG=C"}
	bindings := []buildenv.Binding{
		buildenv.Var("JAVA_HOME", "/opt/jdk/8"),
		buildenv.Var("JAVA_HOME", "/opt/jdk/11"),
	}

	environ := ComposeEnviron(base, bindings, Unix)
	want := []string{"HOME=/home/ci", "LANG=C", "JAVA_HOME=/opt/jdk/11"}
	if strings.Join(environ, "\n") != strings.Join(want, "\n") {
		t.Errorf("ComposeEnviron:\ngot  %v\nwant %v", environ, want)
	}
}

func TestComposeEnvironPrependStacks(t *testing.T) {
	base := []string{"PATH=/usr/bin"}
	bindings := []buildenv.Binding{
		buildenv.PathEntry("/opt/jdk/11/bin"),
		buildenv.PathEntry("/opt/maven/bin"),
	}

	environ := ComposeEnviron(base, bindings, Unix)
	if environ[0] != "PATH=/opt/maven/bin:/opt/jdk/11/bin:/usr/bin" {
		t.Errorf("stacked prepends: got %q", environ[0])
	}
}

func TestComposeEnvironPrependEmptyBase(t *testing.T) {
	environ := ComposeEnviron(nil, []buildenv.Binding{buildenv.PathEntry("/opt/maven/bin")}, Unix)
	if environ[0] != "PATH=/opt/maven/bin" {
		t.Errorf("prepend onto unset variable: got %q", environ[0])
	}
}

func TestComposeEnvironWindowsSeparator(t *testing.T) {
	base := []string{`PATH=C:\Windows`}
	environ := ComposeEnviron(base, []buildenv.Binding{buildenv.PathEntry(`C:\maven\bin`)}, Windows)
	if environ[0] != `PATH=C:\maven\bin;C:\Windows` {
		t.Errorf("windows separator: got %q", environ[0])
	}
}

func TestPlatformString(t *testing.T) {
	if Unix.String() != "unix" || Windows.String() != "windows" {
		t.Errorf("unexpected platform names: %q, %q", Unix.String(), Windows.String())
	}
}
