// Package credentials holds the system-wide container password and builds
// the ordered candidate lists used when opening containers of unknown origin.
package credentials

import (
	"context"
)

// Scope tags where a candidate password comes from.
type Scope string

const (
	// ScopeSystem is the one password applied to every new or rotated container.
	ScopeSystem Scope = "system"
	// ScopeLegacy passwords are only tried while importing, never re-applied.
	ScopeLegacy Scope = "legacy"
	// ScopeNone is the "no password" candidate: the file is not encrypted.
	ScopeNone Scope = "none"
)

// Credential is a password together with its scope.
type Credential struct {
	Password string
	Scope    Scope
}

// Plaintext is the candidate that matches unencrypted workbooks.
var Plaintext = Credential{Scope: ScopeNone}

// Store holds the current system password.
//
// SetSystemPassword must be durable when it returns: a rotation that starts
// afterwards relies on the stored value surviving a restart.
type Store interface {
	System(ctx context.Context) (Credential, error)
	SystemPassword(ctx context.Context) (string, error)
	SetSystemPassword(ctx context.Context, password string) error
	HasCustomPassword(ctx context.Context) (bool, error)
}

// Candidates returns the import candidate list: plaintext first, then the
// empty password, the current system password and finally any legacy
// passwords. Repeated passwords keep their first position.
func Candidates(ctx context.Context, s Store, legacy ...string) ([]Credential, error) {
	system, err := s.System(ctx)
	if err != nil {
		return nil, err
	}

	out := []Credential{Plaintext}
	seen := make(map[string]struct{}, len(legacy)+2)
	add := func(c Credential) {
		if _, ok := seen[c.Password]; ok {
			return
		}
		seen[c.Password] = struct{}{}
		out = append(out, c)
	}

	add(Credential{Password: "", Scope: ScopeLegacy})
	add(system)
	for _, p := range legacy {
		add(Credential{Password: p, Scope: ScopeLegacy})
	}
	return out, nil
}
