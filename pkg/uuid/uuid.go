// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the account identifiers used across WeVote.

Accounts are keyed by UUIDv7 strings: they sort by creation time, which keeps
the primary key index append-mostly, and they are not guessable the way a
serial ID is.
*/
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a fresh UUIDv7 string.
func New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("uuid: generate v7: %w", err)
	}
	return id.String(), nil
}

// Valid reports whether s is a UUID of any version. Account IDs taken from a
// URL are checked with it before they reach storage.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
