// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"
	"os"
	"strings"
)

// Credential is a username/secret pair resolved from a store. The
// secret is held in memory only for the duration of the call that
// needs it; nothing in this package persists credentials.
type Credential struct {
	Username string
	Secret   string
}

// Store resolves credential identifiers to credentials. How the
// backing store binds and protects secrets is its own concern; callers
// only ever see the resolved pair.
type Store interface {
	// Lookup returns the credential for the given identifier, or an
	// error if the identifier is unknown or incomplete.
	Lookup(id string) (Credential, error)
}

// Env is a Store reading credentials from environment variables, the
// way CI hosts surface bound credentials to build processes. For an
// identifier "mirror" with prefix "PIPELINE_", the username comes from
// PIPELINE_MIRROR_USR and the secret from PIPELINE_MIRROR_PSW.
type Env struct {
	// Prefix is prepended to the uppercased identifier. Empty means
	// no prefix.
	Prefix string
}

// Lookup implements Store.
func (e Env) Lookup(id string) (Credential, error) {
	key := e.Prefix + strings.ToUpper(strings.ReplaceAll(id, "-", "_"))
	username := os.Getenv(key + "_USR")
	secret := os.Getenv(key + "_PSW")
	if username == "" && secret == "" {
		return Credential{}, fmt.Errorf("credential %q: %s_USR and %s_PSW not set", id, key, key)
	}
	return Credential{Username: username, Secret: secret}, nil
}

// Static is a fixed identifier → credential table. Used in tests and
// for configurations where credentials arrive pre-resolved.
type Static map[string]Credential

// Lookup implements Store.
func (s Static) Lookup(id string) (Credential, error) {
	cred, ok := s[id]
	if !ok {
		return Credential{}, fmt.Errorf("credential %q: not found", id)
	}
	return cred, nil
}
