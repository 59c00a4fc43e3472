// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"
	"sync"
	"time"
)

// Revocations is an in-memory token revocation list.
type Revocations struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewRevocations returns an empty revocation list.
func NewRevocations() *Revocations {
	return &Revocations{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke records tokenID until the given time.
func (revocations *Revocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	revocations.mu.Lock()
	defer revocations.mu.Unlock()

	revocations.entries[tokenID] = until
	return nil
}

// IsRevoked reports whether tokenID is on the list and not yet expired.
func (revocations *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	revocations.mu.RLock()
	defer revocations.mu.RUnlock()

	until, ok := revocations.entries[tokenID]
	return ok && revocations.now().Before(until), nil
}
