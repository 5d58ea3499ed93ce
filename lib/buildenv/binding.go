// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package buildenv

// Binding is a single environment variable binding applied before a
// command runs. Bindings are applied in sequence order by the command
// executor; a later binding for the same name shadows an earlier one
// (last-wins is executor policy, not enforced here).
type Binding struct {
	// Name is the environment variable name.
	Name string

	// Value is the value to set, or — when Prepend is true — the
	// list entry to prepend to the variable's current value.
	Value string

	// Prepend marks an augmentation binding: the executor joins Value
	// in front of the variable's existing value using the platform
	// list separator. Used for PATH entries of resolved toolchains.
	Prepend bool
}

// String renders the binding as KEY=VALUE. Prepend bindings render the
// entry being prepended, not the final composed value, which is only
// known to the executor.
func (b Binding) String() string {
	return b.Name + "=" + b.Value
}

// Var returns a plain set-binding.
func Var(name, value string) Binding {
	return Binding{Name: name, Value: value}
}

// PathEntry returns a binding that prepends dir to PATH.
func PathEntry(dir string) Binding {
	return Binding{Name: "PATH", Value: dir, Prepend: true}
}
