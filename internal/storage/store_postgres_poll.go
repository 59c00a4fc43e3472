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

// pollSelect reads a poll with its live tally and the submission of the user
// bound to $1. Callers append WHERE / ORDER BY / LIMIT clauses.
var pollSelect = fmt.Sprintf(`
	SELECT p.%[1]s, p.%[2]s, p.%[3]s, p.%[4]s, p.%[5]s, p.%[6]s, p.%[7]s, p.%[8]s, p.%[9]s,
	       COALESCE(t.votesa, 0), COALESCE(t.votesb, 0),
	       COALESCE(t.predictionsa, 0), COALESCE(t.predictionsb, 0),
	       mine.%[12]s, mine.%[13]s
	FROM %[10]s p
	LEFT JOIN LATERAL (
		SELECT COUNT(*) FILTER (WHERE s.%[12]s)     AS votesa,
		       COUNT(*) FILTER (WHERE NOT s.%[12]s) AS votesb,
		       COUNT(*) FILTER (WHERE s.%[13]s)     AS predictionsa,
		       COUNT(*) FILTER (WHERE NOT s.%[13]s) AS predictionsb
		FROM %[11]s s
		WHERE s.%[14]s = p.%[1]s
	) t ON TRUE
	LEFT JOIN %[11]s mine ON mine.%[14]s = p.%[1]s AND mine.%[15]s = $1`,
	schema.Poll.ID, schema.Poll.Title, schema.Poll.Description,
	schema.Poll.OptionA, schema.Poll.OptionB, schema.Poll.Closed,
	schema.Poll.CreatedAt, schema.Poll.ClosesAt, schema.Poll.SuggestedBy,
	schema.Poll.Table, schema.Submission.Table,
	schema.Submission.VoteA, schema.Submission.PredictA,
	schema.Submission.PollID, schema.Submission.UserID,
)

// scanPoll reads one pollSelect row. Tallies are left unredacted.
func scanPoll(row pgx.Row) (safesession.PollInfoForUser, error) {
	var (
		poll                       safesession.PollInfo
		votesA, votesB             int
		predictionsA, predictionsB int
		votedA, predictedA         *bool
	)

	err := row.Scan(
		&poll.ID, &poll.Title, &poll.Description,
		&poll.Options.A, &poll.Options.B, &poll.Closed,
		&poll.CreationDate, &poll.EndDate, &poll.SuggestedBy,
		&votesA, &votesB, &predictionsA, &predictionsB,
		&votedA, &predictedA,
	)
	if err != nil {
		return safesession.PollInfoForUser{}, err
	}

	votes := safesession.NewCounts(votesA, votesB)
	poll.Votes = safesession.Visible(votes)
	poll.TotalSubmissions = votesA + votesB
	poll.Winner = safesession.WinnerOf(votes)
	poll.Predictions = safesession.Visible(safesession.NewCounts(predictionsA, predictionsB))

	info := safesession.PollInfoForUser{Poll: poll}
	if votedA != nil && predictedA != nil {
		info.Submission = &safesession.Submission{VotedA: *votedA, PredictedA: *predictedA}
	}
	return info, nil
}

func (repository *PostgresStore) queryPolls(context context.Context, action, clauses string, args ...any) ([]safesession.PollInfoForUser, error) {
	rows, err := repository.db.Query(context, pollSelect+"\n"+clauses, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	infos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (safesession.PollInfoForUser, error) {
		return scanPoll(row)
	})
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return infos, nil
}

// # Polls

// GetAllOpenPollsInfoForUser lists open polls: those the user has not answered
// first, then by closing time.
func (repository *PostgresStore) GetAllOpenPollsInfoForUser(context context.Context, userID string) ([]safesession.PollInfoForUser, error) {
	clauses := fmt.Sprintf(`WHERE NOT p.%s ORDER BY (mine.%s IS NULL) DESC, p.%s ASC, p.%s ASC`,
		schema.Poll.Closed, schema.Submission.UserID, schema.Poll.ClosesAt, schema.Poll.ID)

	return repository.queryPolls(context, "postgres_poll_repo_open_failed", clauses, userID)
}

// GetLimitedClosedPollsInfoForUser lists the most recently closed polls.
func (repository *PostgresStore) GetLimitedClosedPollsInfoForUser(context context.Context, userID string, limit int) ([]safesession.PollInfoForUser, error) {
	clauses := fmt.Sprintf(`WHERE p.%s ORDER BY p.%s DESC, p.%s DESC LIMIT $2`,
		schema.Poll.Closed, schema.Poll.ClosesAt, schema.Poll.ID)

	return repository.queryPolls(context, "postgres_poll_repo_recent_closed_failed", clauses, userID, limit)
}

// GetAllClosedPollsInfoForUser lists every closed poll by title.
func (repository *PostgresStore) GetAllClosedPollsInfoForUser(context context.Context, userID string) ([]safesession.PollInfoForUser, error) {
	clauses := fmt.Sprintf(`WHERE p.%s ORDER BY p.%s ASC, p.%s ASC`,
		schema.Poll.Closed, schema.Poll.Title, schema.Poll.ID)

	return repository.queryPolls(context, "postgres_poll_repo_closed_failed", clauses, userID)
}

// GetPollInfoForUser returns one poll with the user's submission.
func (repository *PostgresStore) GetPollInfoForUser(context context.Context, userID string, pollID int64) (safesession.PollInfoForUser, error) {
	clauses := fmt.Sprintf(`WHERE p.%s = $2`, schema.Poll.ID)

	info, err := scanPoll(repository.db.QueryRow(context, pollSelect+"\n"+clauses, userID, pollID))
	if err != nil {
		return safesession.PollInfoForUser{}, dberr.Wrap(err, "postgres_poll_repo_get_failed")
	}
	return info, nil
}

/*
SubmitVote upserts the user's submission on an open poll.

Description: The insert only selects the poll row when it is open, so a vote
can never land on a closed poll. When nothing was written, a follow-up read
tells a missing poll apart from a closed one.

Returns:
  - error: safesession.ErrNotFound for an unknown poll or user,
    safesession.ErrConflict for a closed poll, or a storage failure
*/
func (repository *PostgresStore) SubmitVote(context context.Context, pollID int64, userID string, voteA, predictA bool) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s)
		SELECT p.%[7]s, $2, $3, $4 FROM %[6]s p WHERE p.%[7]s = $1 AND NOT p.%[8]s
		ON CONFLICT (%[2]s, %[3]s) DO UPDATE
		SET %[4]s = EXCLUDED.%[4]s, %[5]s = EXCLUDED.%[5]s, %[9]s = now()`,
		schema.Submission.Table,
		schema.Submission.PollID, schema.Submission.UserID,
		schema.Submission.VoteA, schema.Submission.PredictA,
		schema.Poll.Table, schema.Poll.ID, schema.Poll.Closed,
		schema.Submission.SubmittedAt,
	)

	tag, err := repository.db.Exec(context, query, pollID, userID, voteA, predictA)
	if err != nil {
		return dberr.Wrap(err, "postgres_poll_repo_submit_vote_failed")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var closed bool
	check := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, schema.Poll.Closed, schema.Poll.Table, schema.Poll.ID)
	if err := repository.db.QueryRow(context, check, pollID).Scan(&closed); err != nil {
		return dberr.Wrap(err, "postgres_poll_repo_submit_vote_failed")
	}
	return fmt.Errorf("postgres_poll_repo_submit_vote_failed: poll %d closed: %w", pollID, safesession.ErrConflict)
}
