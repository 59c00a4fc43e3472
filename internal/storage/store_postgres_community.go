// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/wevote/internal/platform/database/schema"
	"github.com/taibuivan/wevote/internal/platform/dberr"
	"github.com/taibuivan/wevote/internal/safesession"
)

// # Leaderboards

func (repository *PostgresStore) rank(context context.Context, action, query string, limit int) ([]safesession.Ranking, error) {
	rows, err := repository.db.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	rankings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (safesession.Ranking, error) {
		var ranking safesession.Ranking
		err := row.Scan(&ranking.UserID, &ranking.DisplayName, &ranking.Score)
		return ranking, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return rankings, nil
}

// rankByColumn orders accounts by one statistic column, highest first.
func rankByColumn(column string) string {
	return fmt.Sprintf(`
		SELECT %[1]s, %[2]s, %[3]s
		FROM %[4]s
		ORDER BY %[3]s DESC, %[2]s ASC
		LIMIT $1`,
		schema.Account.ID, schema.Account.DisplayName, column, schema.Account.Table)
}

// GetTopStreakUsers ranks users by current streak.
func (repository *PostgresStore) GetTopStreakUsers(context context.Context, limit int) ([]safesession.Ranking, error) {
	return repository.rank(context, "postgres_community_repo_streak_failed", rankByColumn(schema.Account.Streak), limit)
}

// GetTopLifetimePointUsers ranks users by points ever earned.
func (repository *PostgresStore) GetTopLifetimePointUsers(context context.Context, limit int) ([]safesession.Ranking, error) {
	return repository.rank(context, "postgres_community_repo_lifetime_failed", rankByColumn(schema.Account.LifetimePoints), limit)
}

// GetTopCosmeticCollectors ranks users by how many cosmetics they own.
func (repository *PostgresStore) GetTopCosmeticCollectors(context context.Context, limit int) ([]safesession.Ranking, error) {
	query := fmt.Sprintf(`
		SELECT a.%[1]s, a.%[2]s, COUNT(o.%[5]s)::int AS owned
		FROM %[3]s a
		LEFT JOIN %[4]s o ON o.%[6]s = a.%[1]s
		GROUP BY a.%[1]s, a.%[2]s
		ORDER BY owned DESC, a.%[2]s ASC
		LIMIT $1`,
		schema.Account.ID, schema.Account.DisplayName,
		schema.Account.Table, schema.OwnedCosmetic.Table,
		schema.OwnedCosmetic.CosmeticID, schema.OwnedCosmetic.UserID,
	)

	return repository.rank(context, "postgres_community_repo_collectors_failed", query, limit)
}

// # Cosmetics

/*
GetCosmeticsForUser splits the catalogue into what userID owns and what is
still available, each with its global purchase count.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - safesession.Cosmetics: both sets grouped by slot
  - error: a storage failure
*/
func (repository *PostgresStore) GetCosmeticsForUser(context context.Context, userID string) (safesession.Cosmetics, error) {
	query := fmt.Sprintf(`
		SELECT c.%[1]s, c.%[2]s, c.%[3]s, c.%[4]s,
		       (SELECT COUNT(*)::int FROM %[6]s p WHERE p.%[7]s = c.%[1]s),
		       EXISTS (SELECT 1 FROM %[6]s o WHERE o.%[7]s = c.%[1]s AND o.%[8]s = $1)
		FROM %[5]s c
		ORDER BY c.%[1]s ASC`,
		schema.Cosmetic.ID, schema.Cosmetic.Slot, schema.Cosmetic.Cost, schema.Cosmetic.Src,
		schema.Cosmetic.Table, schema.OwnedCosmetic.Table,
		schema.OwnedCosmetic.CosmeticID, schema.OwnedCosmetic.UserID,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return safesession.Cosmetics{}, dberr.Wrap(err, "postgres_community_repo_cosmetics_failed")
	}
	defer rows.Close()

	var cosmetics safesession.Cosmetics
	for rows.Next() {
		var cosmetic safesession.Cosmetic
		var owned bool
		if err := rows.Scan(&cosmetic.ID, &cosmetic.Slot, &cosmetic.Cost, &cosmetic.Src, &cosmetic.Purchases, &owned); err != nil {
			return safesession.Cosmetics{}, dberr.Wrap(err, "postgres_community_repo_cosmetics_failed")
		}
		if owned {
			cosmetics.Owned.Add(cosmetic)
		} else {
			cosmetics.Available.Add(cosmetic)
		}
	}
	if err := rows.Err(); err != nil {
		return safesession.Cosmetics{}, dberr.Wrap(err, "postgres_community_repo_cosmetics_failed")
	}

	return cosmetics, nil
}

// displayedColumn maps a slot to the account column that shows it.
func displayedColumn(slot safesession.Slot) (string, bool) {
	switch slot {
	case safesession.SlotFront:
		return schema.Account.DisplayedFront, true
	case safesession.SlotMiddle:
		return schema.Account.DisplayedMiddle, true
	case safesession.SlotBack:
		return schema.Account.DisplayedBack, true
	}
	return "", false
}

/*
EquipCosmetic displays an owned cosmetic in slot.

Description: The update only matches when userID owns the cosmetic and the
cosmetic belongs to slot, so nothing changes otherwise.

Returns:
  - error: safesession.ErrNotFound when the cosmetic is not owned or the slot
    does not match, or a storage failure
*/
func (repository *PostgresStore) EquipCosmetic(context context.Context, userID string, slot safesession.Slot, cosmeticID int64) error {
	column, ok := displayedColumn(slot)
	if !ok {
		return safesession.ErrNotFound
	}

	query := fmt.Sprintf(`
		UPDATE %[1]s a SET %[2]s = $3
		WHERE a.%[3]s = $1
		  AND EXISTS (
			SELECT 1 FROM %[4]s o
			JOIN %[5]s c ON c.%[6]s = o.%[7]s
			WHERE o.%[8]s = $1 AND o.%[7]s = $3 AND c.%[9]s = $2
		  )`,
		schema.Account.Table, column, schema.Account.ID,
		schema.OwnedCosmetic.Table, schema.Cosmetic.Table, schema.Cosmetic.ID,
		schema.OwnedCosmetic.CosmeticID, schema.OwnedCosmetic.UserID, schema.Cosmetic.Slot,
	)

	tag, err := repository.db.Exec(context, query, userID, string(slot), cosmeticID)
	if err != nil {
		return dberr.Wrap(err, "postgres_community_repo_equip_failed")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres_community_repo_equip_failed: cosmetic %d: %w", cosmeticID, safesession.ErrNotFound)
	}
	return nil
}

// # Suggestions

// InsertSuggestion stores a pending poll suggestion.
func (repository *PostgresStore) InsertSuggestion(context context.Context, suggestion safesession.Suggestion) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		schema.Suggestion.Table,
		schema.Suggestion.SuggesterID, schema.Suggestion.Title, schema.Suggestion.Description,
		schema.Suggestion.OptionA, schema.Suggestion.OptionB,
		schema.Suggestion.ID,
	)

	var id int64
	err := repository.db.QueryRow(context, query,
		suggestion.SuggesterID, suggestion.Title, suggestion.Description,
		suggestion.Options.A, suggestion.Options.B,
	).Scan(&id)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_community_repo_suggest_failed")
	}
	return id, nil
}
