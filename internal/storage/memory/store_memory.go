// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package memory is an in-process implementation of the session Database and
// AdminDatabase. It backs tests and local runs without Postgres.
//
// # Transactions
//
// A single mutex guards the whole state. [Store.InTx] clones the state, runs
// the callback against the clone while holding the lock, and swaps the clone
// in only when the callback succeeds.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/uuid"
)

// # Rows

type userRow struct {
	info         safesession.UserInfo
	email        string
	passwordHash string
}

type pollRow struct {
	id          int64
	title       string
	description string
	options     safesession.Options
	closed      bool
	createdAt   time.Time
	closesAt    time.Time
	suggestedBy *string
}

type submissionKey struct {
	pollID int64
	userID string
}

type commentRow struct {
	id        int64
	pollID    int64
	userID    string
	content   string
	createdAt time.Time
}

type replyRow struct {
	id        int64
	commentID int64
	userID    string
	content   string
	createdAt time.Time
}

// state is everything the store holds. Rows are stored by value so a shallow
// map copy is a full snapshot.
type state struct {
	users       map[string]userRow
	polls       map[int64]pollRow
	submissions map[submissionKey]safesession.Submission
	comments    map[int64]commentRow
	replies     map[int64]replyRow
	cosmetics   map[int64]safesession.Cosmetic
	owned       map[string]map[int64]bool
	suggestions map[int64]safesession.Suggestion
	nextID      int64
}

func newState() *state {
	return &state{
		users:       make(map[string]userRow),
		polls:       make(map[int64]pollRow),
		submissions: make(map[submissionKey]safesession.Submission),
		comments:    make(map[int64]commentRow),
		replies:     make(map[int64]replyRow),
		cosmetics:   make(map[int64]safesession.Cosmetic),
		owned:       make(map[string]map[int64]bool),
		suggestions: make(map[int64]safesession.Suggestion),
	}
}

func (s *state) clone() *state {
	c := &state{
		users:       make(map[string]userRow, len(s.users)),
		polls:       make(map[int64]pollRow, len(s.polls)),
		submissions: make(map[submissionKey]safesession.Submission, len(s.submissions)),
		comments:    make(map[int64]commentRow, len(s.comments)),
		replies:     make(map[int64]replyRow, len(s.replies)),
		cosmetics:   make(map[int64]safesession.Cosmetic, len(s.cosmetics)),
		owned:       make(map[string]map[int64]bool, len(s.owned)),
		suggestions: make(map[int64]safesession.Suggestion, len(s.suggestions)),
		nextID:      s.nextID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.polls {
		c.polls[k] = v
	}
	for k, v := range s.submissions {
		c.submissions[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	for k, v := range s.replies {
		c.replies[k] = v
	}
	for k, v := range s.cosmetics {
		c.cosmetics[k] = v
	}
	for user, set := range s.owned {
		copied := make(map[int64]bool, len(set))
		for id := range set {
			copied[id] = true
		}
		c.owned[user] = copied
	}
	for k, v := range s.suggestions {
		c.suggestions[k] = v
	}
	return c
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// # Store

// Store is the in-memory Database. The zero value is not usable; call [New].
type Store struct {
	mu    *sync.Mutex
	data  *state
	inTx  bool
	now   func() time.Time
	calls *atomic.Int64
}

// Option customizes a [Store].
type Option func(*Store)

// WithClock replaces time.Now, so tests can pin creation and close times.
func WithClock(now func() time.Time) Option {
	return func(store *Store) { store.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	store := &Store{
		mu:    &sync.Mutex{},
		data:  newState(),
		now:   time.Now,
		calls: &atomic.Int64{},
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Calls reports how many Database methods have been invoked.
func (store *Store) Calls() int64 {
	return store.calls.Load()
}

// lock takes the store mutex unless the store is a transaction view, whose
// caller already holds it.
func (store *Store) lock() func() {
	store.calls.Add(1)
	if store.inTx {
		return func() {}
	}
	store.mu.Lock()
	return store.mu.Unlock
}

// InTx runs fn against a snapshot and commits it only when fn succeeds.
func (store *Store) InTx(ctx context.Context, fn func(tx safesession.Database) error) error {
	if store.inTx {
		return fn(store)
	}

	unlock := store.lock()
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	view := &Store{
		mu:    store.mu,
		data:  store.data.clone(),
		inTx:  true,
		now:   store.now,
		calls: store.calls,
	}
	if err := fn(view); err != nil {
		return err
	}

	store.data = view.data
	return nil
}

// # Seeding

// SeedUser inserts a user directly, bypassing validation. It returns the new ID.
func (store *Store) SeedUser(displayName, email, passwordHash string, role sec.UserRole) string {
	unlock := store.lock()
	defer unlock()

	id, err := uuid.New()
	if err != nil {
		panic(err)
	}
	store.data.users[id] = userRow{
		info: safesession.UserInfo{
			ID:          id,
			DisplayName: displayName,
			Bio:         safesession.DefaultBio,
			Role:        string(role),
			CreatedAt:   store.now(),
		},
		email:        email,
		passwordHash: passwordHash,
	}
	return id
}

// SetStats overwrites a user's leaderboard statistics.
func (store *Store) SetStats(userID string, points, lifetimePoints, streak int) {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.users[userID]
	if !ok {
		return
	}
	row.info.Points = points
	row.info.LifetimePoints = lifetimePoints
	row.info.Streak = streak
	store.data.users[userID] = row
}

// SeedCosmetic adds a cosmetic to the catalogue and returns its ID.
func (store *Store) SeedCosmetic(slot safesession.Slot, cost int, src string) int64 {
	unlock := store.lock()
	defer unlock()

	id := store.data.id()
	store.data.cosmetics[id] = safesession.Cosmetic{ID: id, Slot: slot, Cost: cost, Src: src}
	return id
}

// GrantCosmetic records that a user owns a cosmetic.
func (store *Store) GrantCosmetic(userID string, cosmeticID int64) {
	unlock := store.lock()
	defer unlock()

	if store.data.owned[userID] == nil {
		store.data.owned[userID] = make(map[int64]bool)
	}
	store.data.owned[userID][cosmeticID] = true
}

var (
	_ safesession.Database      = (*Store)(nil)
	_ safesession.AdminDatabase = (*Store)(nil)
)
