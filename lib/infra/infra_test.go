// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package infra

import "testing"

func TestURLDetectorTrailingSlash(t *testing.T) {
	detector := &URLDetector{
		ControllerURL: "https://ci.example.org/",
		TrustedURLs:   []string{"https://ci.example.org"},
	}
	if !detector.OnManagedInfra() {
		t.Error("trailing slash variants should compare equal")
	}
}

func TestURLDetectorUntrusted(t *testing.T) {
	detector := &URLDetector{
		ControllerURL: "https://ci.fork.example.net/",
		TrustedURLs:   []string{"https://ci.example.org/"},
	}
	if detector.OnManagedInfra() {
		t.Error("unknown controller should not be managed")
	}
}

func TestURLDetectorNoControllerURL(t *testing.T) {
	detector := &URLDetector{
		TrustedURLs: []string{"https://ci.example.org/"},
	}
	if detector.OnManagedInfra() {
		t.Error("empty controller URL should never be managed")
	}
}

func TestURLDetectorEmptyTrustList(t *testing.T) {
	detector := &URLDetector{ControllerURL: "https://ci.example.org/"}
	if detector.OnManagedInfra() {
		t.Error("empty trust list should never match")
	}
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv(ControllerURLVariable, "https://ci.example.org/")
	detector := FromEnvironment([]string{"https://ci.example.org"})
	if !detector.OnManagedInfra() {
		t.Error("detector should capture the ambient controller URL")
	}
}

func TestStatic(t *testing.T) {
	if !Static(true).OnManagedInfra() {
		t.Error("Static(true) should report managed")
	}
	if Static(false).OnManagedInfra() {
		t.Error("Static(false) should not report managed")
	}
}
