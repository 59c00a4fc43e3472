// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/wevote/internal/platform/database/schema"
	"github.com/taibuivan/wevote/internal/platform/dberr"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/pointer"
)

// limitOf turns a page limit into a SQL LIMIT argument. NULL means no limit.
func limitOf(page safesession.Page) *int {
	if page.Limit <= 0 {
		return nil
	}
	return &page.Limit
}

func offsetOf(page safesession.Page) int {
	return max(page.Offset, 0)
}

func (repository *PostgresStore) count(context context.Context, action, query string) (int, error) {
	var total int
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, action)
	}
	return total, nil
}

// # Polls

// ListPolls lists polls newest first with unredacted tallies.
func (repository *PostgresStore) ListPolls(context context.Context, page safesession.Page) ([]safesession.PollInfo, int, error) {
	total, err := repository.count(context, "postgres_admin_repo_count_polls_failed",
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Poll.Table))
	if err != nil {
		return nil, 0, err
	}

	clauses := fmt.Sprintf(`ORDER BY p.%s DESC LIMIT $2 OFFSET $3`, schema.Poll.ID)
	infos, err := repository.queryPolls(context, "postgres_admin_repo_list_polls_failed", clauses, "", limitOf(page), offsetOf(page))
	if err != nil {
		return nil, 0, err
	}

	polls := make([]safesession.PollInfo, len(infos))
	for i, info := range infos {
		polls[i] = info.Poll
	}
	return polls, total, nil
}

// GetPoll returns one poll with its unredacted tally.
func (repository *PostgresStore) GetPoll(context context.Context, id int64) (safesession.PollInfo, error) {
	info, err := repository.GetPollInfoForUser(context, "", id)
	if err != nil {
		return safesession.PollInfo{}, err
	}
	return info.Poll, nil
}

// InsertPoll stores a new poll.
func (repository *PostgresStore) InsertPoll(context context.Context, input safesession.PollInput) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`,
		schema.Poll.Table,
		schema.Poll.Title, schema.Poll.Description, schema.Poll.OptionA, schema.Poll.OptionB,
		schema.Poll.ClosesAt, schema.Poll.Closed, schema.Poll.SuggestedBy,
		schema.Poll.ID,
	)

	var id int64
	err := repository.db.QueryRow(context, query,
		input.Title, input.Description, input.Options.A, input.Options.B,
		input.ClosesAt, input.Closed, input.SuggestedBy,
	).Scan(&id)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_admin_repo_insert_poll_failed")
	}
	return id, nil
}

// UpdatePoll replaces the editable fields of a poll. The suggester is kept.
func (repository *PostgresStore) UpdatePoll(context context.Context, id int64, input safesession.PollInput) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.Poll.Table,
		schema.Poll.Title, schema.Poll.Description, schema.Poll.OptionA, schema.Poll.OptionB,
		schema.Poll.ClosesAt, schema.Poll.Closed,
		schema.Poll.ID,
	)

	tag, err := repository.db.Exec(context, query, id,
		input.Title, input.Description, input.Options.A, input.Options.B,
		input.ClosesAt, input.Closed,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_admin_repo_update_poll_failed")
	}
	if tag.RowsAffected() == 0 {
		return safesession.ErrNotFound
	}
	return nil
}

// DeletePoll removes a poll. Submissions, comments and replies cascade.
func (repository *PostgresStore) DeletePoll(context context.Context, id int64) error {
	return repository.deleteByID(context, "postgres_admin_repo_delete_poll_failed", schema.Poll.Table, schema.Poll.ID, id)
}

func (repository *PostgresStore) deleteByID(context context.Context, action, table, column string, id any) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, column)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", action, safesession.ErrNotFound)
	}
	return nil
}

// # Users

/*
ListUsers lists accounts newest first, including their email.

Description: IDs are UUIDv7, so ordering by ID descending is ordering by
creation time.
*/
func (repository *PostgresStore) ListUsers(context context.Context, page safesession.Page) ([]safesession.AccountInfo, int, error) {
	total, err := repository.count(context, "postgres_admin_repo_count_users_failed",
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Account.Table))
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		schema.Account.ID, schema.Account.DisplayName, schema.Account.Bio,
		schema.Account.Points, schema.Account.LifetimePoints, schema.Account.Streak,
		schema.Account.PredictionAccuracy, schema.Account.Role,
		schema.Account.DisplayedFront, schema.Account.DisplayedMiddle, schema.Account.DisplayedBack,
		schema.Account.CreatedAt, schema.Account.Email,
		schema.Account.Table,
		schema.Account.ID,
	)

	rows, err := repository.db.Query(context, query, limitOf(page), offsetOf(page))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_admin_repo_list_users_failed")
	}

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (safesession.AccountInfo, error) {
		var account safesession.AccountInfo
		var front, middle, back *int64
		err := row.Scan(
			&account.ID, &account.DisplayName, &account.Bio,
			&account.Points, &account.LifetimePoints, &account.Streak,
			&account.PredictionAccuracy, &account.Role,
			&front, &middle, &back,
			&account.CreatedAt, &account.Email,
		)
		account.Displayed = safesession.Displayed{
			Front:  pointer.Val(front),
			Middle: pointer.Val(middle),
			Back:   pointer.Val(back),
		}
		return account, err
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_admin_repo_list_users_failed")
	}
	return accounts, total, nil
}

// DeleteUser removes an account. Everything it authored cascades and polls it
// suggested lose the attribution.
func (repository *PostgresStore) DeleteUser(context context.Context, id string) error {
	return repository.deleteByID(context, "postgres_admin_repo_delete_user_failed", schema.Account.Table, schema.Account.ID, id)
}

// # Suggestions

var suggestionSelect = fmt.Sprintf(`
	SELECT %s, %s, %s, %s, %s, %s, %s, %s
	FROM %s`,
	schema.Suggestion.ID, schema.Suggestion.SuggesterID, schema.Suggestion.Title,
	schema.Suggestion.Description, schema.Suggestion.OptionA, schema.Suggestion.OptionB,
	schema.Suggestion.Dismissed, schema.Suggestion.CreatedAt,
	schema.Suggestion.Table,
)

func scanSuggestion(row pgx.Row) (safesession.Suggestion, error) {
	var suggestion safesession.Suggestion
	err := row.Scan(
		&suggestion.ID, &suggestion.SuggesterID, &suggestion.Title,
		&suggestion.Description, &suggestion.Options.A, &suggestion.Options.B,
		&suggestion.Dismissed, &suggestion.CreatedAt,
	)
	return suggestion, err
}

// ListSuggestions lists pending suggestions newest first.
func (repository *PostgresStore) ListSuggestions(context context.Context, page safesession.Page) ([]safesession.Suggestion, int, error) {
	total, err := repository.count(context, "postgres_admin_repo_count_suggestions_failed",
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE NOT %s`, schema.Suggestion.Table, schema.Suggestion.Dismissed))
	if err != nil {
		return nil, 0, err
	}

	query := suggestionSelect + fmt.Sprintf(`
		WHERE NOT %s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		schema.Suggestion.Dismissed, schema.Suggestion.ID)

	rows, err := repository.db.Query(context, query, limitOf(page), offsetOf(page))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_admin_repo_list_suggestions_failed")
	}

	suggestions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (safesession.Suggestion, error) {
		return scanSuggestion(row)
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_admin_repo_list_suggestions_failed")
	}
	return suggestions, total, nil
}

// GetSuggestion returns one suggestion.
func (repository *PostgresStore) GetSuggestion(context context.Context, id int64) (safesession.Suggestion, error) {
	query := suggestionSelect + fmt.Sprintf(` WHERE %s = $1`, schema.Suggestion.ID)

	suggestion, err := scanSuggestion(repository.db.QueryRow(context, query, id))
	if err != nil {
		return safesession.Suggestion{}, dberr.Wrap(err, "postgres_admin_repo_get_suggestion_failed")
	}
	return suggestion, nil
}

/*
CreatePollFromSuggestion turns a pending suggestion into a poll and dismisses
the suggestion in the same transaction.

Parameters:
  - context: context.Context
  - id: the suggestion ID
  - closesAt: when the new poll closes

Returns:
  - int64: the new poll ID
  - error: safesession.ErrNotFound for an unknown suggestion,
    safesession.ErrConflict when it was already dismissed
*/
func (repository *PostgresStore) CreatePollFromSuggestion(context context.Context, id int64, closesAt time.Time) (int64, error) {
	var pollID int64

	err := repository.InTx(context, func(tx safesession.Database) error {
		store := tx.(*PostgresStore)

		suggestion, err := store.GetSuggestion(context, id)
		if err != nil {
			return err
		}
		if suggestion.Dismissed {
			return fmt.Errorf("postgres_admin_repo_approve_failed: suggestion %d: %w", id, safesession.ErrConflict)
		}

		pollID, err = store.InsertPoll(context, safesession.PollInput{
			Title:       suggestion.Title,
			Description: suggestion.Description,
			Options:     suggestion.Options,
			ClosesAt:    closesAt,
			SuggestedBy: &suggestion.SuggesterID,
		})
		if err != nil {
			return err
		}

		return store.DismissSuggestion(context, id)
	})

	return pollID, err
}

// DismissSuggestion marks a suggestion handled.
func (repository *PostgresStore) DismissSuggestion(context context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
		schema.Suggestion.Table, schema.Suggestion.Dismissed, schema.Suggestion.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_admin_repo_dismiss_suggestion_failed")
	}
	if tag.RowsAffected() == 0 {
		return safesession.ErrNotFound
	}
	return nil
}

// DeleteSuggestion removes a suggestion.
func (repository *PostgresStore) DeleteSuggestion(context context.Context, id int64) error {
	return repository.deleteByID(context, "postgres_admin_repo_delete_suggestion_failed", schema.Suggestion.Table, schema.Suggestion.ID, id)
}

// # Comments

// ListComments lists every comment newest first with replies nested.
func (repository *PostgresStore) ListComments(context context.Context, page safesession.Page) ([]safesession.Comment, int, error) {
	total, err := repository.count(context, "postgres_admin_repo_count_comments_failed",
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Comment.Table))
	if err != nil {
		return nil, 0, err
	}

	query := commentSelect + fmt.Sprintf(`
		ORDER BY c.%s DESC
		LIMIT $1 OFFSET $2`, schema.Comment.ID)

	rows, err := repository.db.Query(context, query, limitOf(page), offsetOf(page))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_admin_repo_list_comments_failed")
	}

	comments, err := pgx.CollectRows(rows, scanComment)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_admin_repo_list_comments_failed")
	}

	if err := repository.attachReplies(context, comments); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_admin_repo_list_comments_failed")
	}
	return comments, total, nil
}

// DeleteComment removes a comment and, by cascade, its replies.
func (repository *PostgresStore) DeleteComment(context context.Context, id int64) error {
	return repository.deleteByID(context, "postgres_admin_repo_delete_comment_failed", schema.Comment.Table, schema.Comment.ID, id)
}

// DeleteReply removes one reply.
func (repository *PostgresStore) DeleteReply(context context.Context, id int64) error {
	return repository.deleteByID(context, "postgres_admin_repo_delete_reply_failed", schema.Reply.Table, schema.Reply.ID, id)
}
