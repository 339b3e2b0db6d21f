// Package common defines the sentinel errors and small helpers shared by the
// container, rotation and ingest layers. Callers should use errors.Is to
// match these values; concrete failures wrap them with context.
package common

import "errors"

var (
	// Container errors.
	ErrWrongPassword = errors.New("wrong password")
	ErrCorrupt       = errors.New("corrupt container")
	ErrEmptyPassword = errors.New("empty password")

	// ErrNotFound is returned by the resolver when no candidate opens a
	// container. It is a signal, not a failure of the resolver itself.
	ErrNotFound = errors.New("no matching password")

	// Ingest errors.
	ErrMissingSheet = errors.New("missing worksheet")
	ErrDatabase     = errors.New("database error")

	// File system errors (temp creation, write, replace).
	ErrIO = errors.New("io failure")

	// ErrCancelled marks a batch stopped by its context before all files ran.
	ErrCancelled = errors.New("cancelled")
)
