// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"
	"sort"

	"github.com/taibuivan/wevote/internal/safesession"
)

// ranking orders every user by score, highest first, and keeps the top limit.
func (s *state) ranking(limit int, score func(userRow) int) []safesession.Ranking {
	rankings := make([]safesession.Ranking, 0, len(s.users))
	for _, row := range s.users {
		rankings = append(rankings, safesession.Ranking{
			UserID:      row.info.ID,
			DisplayName: row.info.DisplayName,
			Score:       score(row),
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Score != rankings[j].Score {
			return rankings[i].Score > rankings[j].Score
		}
		return rankings[i].DisplayName < rankings[j].DisplayName
	})
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings
}

// GetTopStreakUsers ranks users by current streak.
func (store *Store) GetTopStreakUsers(_ context.Context, limit int) ([]safesession.Ranking, error) {
	unlock := store.lock()
	defer unlock()

	return store.data.ranking(limit, func(row userRow) int { return row.info.Streak }), nil
}

// GetTopLifetimePointUsers ranks users by points ever earned.
func (store *Store) GetTopLifetimePointUsers(_ context.Context, limit int) ([]safesession.Ranking, error) {
	unlock := store.lock()
	defer unlock()

	return store.data.ranking(limit, func(row userRow) int { return row.info.LifetimePoints }), nil
}

// GetTopCosmeticCollectors ranks users by how many cosmetics they own.
func (store *Store) GetTopCosmeticCollectors(_ context.Context, limit int) ([]safesession.Ranking, error) {
	unlock := store.lock()
	defer unlock()

	return store.data.ranking(limit, func(row userRow) int { return len(store.data.owned[row.info.ID]) }), nil
}

// GetCosmeticsForUser splits the catalogue into owned and available.
func (store *Store) GetCosmeticsForUser(_ context.Context, userID string) (safesession.Cosmetics, error) {
	unlock := store.lock()
	defer unlock()

	catalogue := make([]safesession.Cosmetic, 0, len(store.data.cosmetics))
	for _, cosmetic := range store.data.cosmetics {
		cosmetic.Purchases = store.data.purchases(cosmetic.ID)
		catalogue = append(catalogue, cosmetic)
	}
	sort.Slice(catalogue, func(i, j int) bool { return catalogue[i].ID < catalogue[j].ID })

	var cosmetics safesession.Cosmetics
	for _, cosmetic := range catalogue {
		if store.data.owned[userID][cosmetic.ID] {
			cosmetics.Owned.Add(cosmetic)
		} else {
			cosmetics.Available.Add(cosmetic)
		}
	}
	return cosmetics, nil
}

func (s *state) purchases(cosmeticID int64) int {
	count := 0
	for _, set := range s.owned {
		if set[cosmeticID] {
			count++
		}
	}
	return count
}

// EquipCosmetic displays an owned cosmetic in its slot.
func (store *Store) EquipCosmetic(_ context.Context, userID string, slot safesession.Slot, cosmeticID int64) error {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.users[userID]
	if !ok || !store.data.owned[userID][cosmeticID] {
		return safesession.ErrNotFound
	}
	if cosmetic := store.data.cosmetics[cosmeticID]; cosmetic.Slot != slot {
		return safesession.ErrNotFound
	}

	switch slot {
	case safesession.SlotFront:
		row.info.Displayed.Front = cosmeticID
	case safesession.SlotMiddle:
		row.info.Displayed.Middle = cosmeticID
	case safesession.SlotBack:
		row.info.Displayed.Back = cosmeticID
	}
	store.data.users[userID] = row
	return nil
}

// InsertSuggestion stores a poll suggestion.
func (store *Store) InsertSuggestion(_ context.Context, suggestion safesession.Suggestion) (int64, error) {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.users[suggestion.SuggesterID]; !ok {
		return 0, safesession.ErrNotFound
	}

	suggestion.ID = store.data.id()
	suggestion.CreatedAt = store.now()
	suggestion.Dismissed = false
	store.data.suggestions[suggestion.ID] = suggestion
	return suggestion.ID, nil
}
