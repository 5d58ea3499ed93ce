// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"fmt"
	"sort"
	"strconv"
)

// Maven is the fixed tool identifier for the Maven installation. There
// is exactly one Maven toolchain; only the JDK is versioned.
const Maven = "mvn"

// JDK returns the tool identifier for a JDK of the given major version,
// e.g. JDK(11) == "jdk11".
func JDK(version int) string {
	return "jdk" + strconv.Itoa(version)
}

// NotFoundError is returned when a tool identifier has no registered
// installation. It is fatal to the caller: no fallback toolchain is
// ever substituted.
type NotFoundError struct {
	// Tool is the identifier that failed to resolve.
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("toolchain: no installation registered for %q", e.Tool)
}

// Resolver resolves a tool identifier to the root directory of its
// installation.
type Resolver interface {
	// Resolve returns the install root for the given tool identifier,
	// or a *NotFoundError if the identifier is unknown.
	Resolve(tool string) (string, error)
}

// Map is a Resolver backed by a static tool → install root table,
// typically loaded from the configuration file's installations
// section.
type Map map[string]string

// Resolve implements Resolver.
func (m Map) Resolve(tool string) (string, error) {
	root, ok := m[tool]
	if !ok || root == "" {
		return "", &NotFoundError{Tool: tool}
	}
	return root, nil
}

// Tools returns the registered tool identifiers in sorted order.
func (m Map) Tools() []string {
	tools := make([]string, 0, len(m))
	for tool := range m {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}
