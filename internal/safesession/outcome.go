// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"errors"
	"fmt"
)

// # Failure Taxonomy

// FailKind is the closed set of ways a session operation can fail.
type FailKind string

const (
	// Unauthorized covers credential and permission failures. It is deliberately
	// uninformative so callers cannot enumerate accounts.
	Unauthorized FailKind = "unauthorized"

	// Nonexistent means the referenced entity does not exist.
	Nonexistent FailKind = "nonexistent"

	// Conflict means a uniqueness or state violation (duplicate email, closed poll).
	Conflict FailKind = "conflict"

	// DatabaseFault means the underlying store failed.
	DatabaseFault FailKind = "database_fault"
)

// Fail is the error returned by every session operation that does not succeed.
//
// # Usage
//
// Operations return (T, error). Callers must check the error before touching T;
// use [IsFail] or [KindOf] to branch on the failure kind.
type Fail struct {
	// Kind classifies the failure.
	Kind FailKind
	// Message is an optional, client-safe description.
	Message string
	// Cause is the underlying store error, kept for server-side logging only.
	Cause error
}

// Error implements the error interface.
func (f *Fail) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap exposes the store error to [errors.Is] and [errors.As].
func (f *Fail) Unwrap() error { return f.Cause }

// # Constructors

func fail(kind FailKind, message string) *Fail {
	return &Fail{Kind: kind, Message: message}
}

// fault wraps a store error as [DatabaseFault].
func fault(message string, cause error) *Fail {
	return &Fail{Kind: DatabaseFault, Message: message, Cause: cause}
}

// # Helpers

// IsFail reports whether err is a [*Fail] of the given kind.
func IsFail(err error, kind FailKind) bool {
	var f *Fail
	return errors.As(err, &f) && f.Kind == kind
}

// KindOf returns the failure kind of err, or "" when err is not a [*Fail].
func KindOf(err error) FailKind {
	var f *Fail
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// AsFail extracts the [*Fail] from err's chain. It returns nil if not found.
func AsFail(err error) *Fail {
	var f *Fail
	if errors.As(err, &f) {
		return f
	}
	return nil
}
