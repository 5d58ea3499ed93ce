// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package infra

import (
	"os"
	"strings"
)

// ControllerURLVariable is the environment variable carrying the URL
// of the CI controller the current run was dispatched from.
const ControllerURLVariable = "CONTROLLER_URL"

// Detector reports whether the current run executes on managed
// (trusted) infrastructure. Managed infrastructure alters build
// defaults — most notably which Maven settings (mirror selection) are
// injected into invocations.
type Detector interface {
	OnManagedInfra() bool
}

// URLDetector decides by comparing the controller URL the run was
// dispatched from against a list of trusted controller URLs. The
// comparison is a pure string equality after trailing-slash
// normalization; no network request is made.
type URLDetector struct {
	// ControllerURL is the URL of the controller for the current run.
	// Empty means the run is not attributable to any controller and is
	// never considered managed.
	ControllerURL string

	// TrustedURLs are the controller URLs operated as managed
	// infrastructure.
	TrustedURLs []string
}

// FromEnvironment builds a URLDetector for the current process,
// capturing the ambient controller URL once so that the decision is
// explicit and stable for the lifetime of the detector.
func FromEnvironment(trustedURLs []string) *URLDetector {
	return &URLDetector{
		ControllerURL: os.Getenv(ControllerURLVariable),
		TrustedURLs:   trustedURLs,
	}
}

// OnManagedInfra implements Detector.
func (d *URLDetector) OnManagedInfra() bool {
	current := normalizeURL(d.ControllerURL)
	if current == "" {
		return false
	}
	for _, trusted := range d.TrustedURLs {
		if normalizeURL(trusted) == current {
			return true
		}
	}
	return false
}

// normalizeURL strips surrounding whitespace and any trailing slash so
// that "https://ci.example.org/" and "https://ci.example.org" compare
// equal.
func normalizeURL(url string) string {
	return strings.TrimRight(strings.TrimSpace(url), "/")
}

// Static is a Detector with a fixed answer. Useful in tests and for
// forcing managed behavior in configuration-driven setups.
type Static bool

// OnManagedInfra implements Detector.
func (s Static) OnManagedInfra() bool { return bool(s) }
