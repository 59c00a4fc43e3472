// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/slice"
)

// pollInfo computes the live tally of a poll. Nothing is redacted here.
func (s *state) pollInfo(row pollRow) safesession.PollInfo {
	var votesA, votesB, predictionsA, predictionsB int
	for key, submission := range s.submissions {
		if key.pollID != row.id {
			continue
		}
		if submission.VotedA {
			votesA++
		} else {
			votesB++
		}
		if submission.PredictedA {
			predictionsA++
		} else {
			predictionsB++
		}
	}

	votes := safesession.NewCounts(votesA, votesB)
	return safesession.PollInfo{
		ID:               row.id,
		Title:            row.title,
		Description:      row.description,
		Options:          row.options,
		Votes:            safesession.Visible(votes),
		TotalSubmissions: votesA + votesB,
		Winner:           safesession.WinnerOf(votes),
		Predictions:      safesession.Visible(safesession.NewCounts(predictionsA, predictionsB)),
		Closed:           row.closed,
		CreationDate:     row.createdAt,
		EndDate:          row.closesAt,
		SuggestedBy:      row.suggestedBy,
	}
}

func (s *state) pollInfoForUser(row pollRow, userID string) safesession.PollInfoForUser {
	info := safesession.PollInfoForUser{Poll: s.pollInfo(row)}
	if submission, ok := s.submissions[submissionKey{pollID: row.id, userID: userID}]; ok {
		info.Submission = &submission
	}
	return info
}

func (s *state) pollsWhere(keep func(pollRow) bool) []pollRow {
	rows := make([]pollRow, 0, len(s.polls))
	for _, row := range s.polls {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (s *state) forUser(rows []pollRow, userID string) []safesession.PollInfoForUser {
	return slice.Map(rows, func(row pollRow) safesession.PollInfoForUser {
		return s.pollInfoForUser(row, userID)
	})
}

// GetAllOpenPollsInfoForUser lists open polls, unanswered first, then soonest to close.
func (store *Store) GetAllOpenPollsInfoForUser(_ context.Context, userID string) ([]safesession.PollInfoForUser, error) {
	unlock := store.lock()
	defer unlock()

	rows := store.data.pollsWhere(func(row pollRow) bool { return !row.closed })
	submitted := func(row pollRow) bool {
		_, ok := store.data.submissions[submissionKey{pollID: row.id, userID: userID}]
		return ok
	}
	sort.Slice(rows, func(i, j int) bool {
		if si, sj := submitted(rows[i]), submitted(rows[j]); si != sj {
			return !si
		}
		if !rows[i].closesAt.Equal(rows[j].closesAt) {
			return rows[i].closesAt.Before(rows[j].closesAt)
		}
		return rows[i].id < rows[j].id
	})

	return store.data.forUser(rows, userID), nil
}

// GetLimitedClosedPollsInfoForUser lists the most recently closed polls.
func (store *Store) GetLimitedClosedPollsInfoForUser(_ context.Context, userID string, limit int) ([]safesession.PollInfoForUser, error) {
	unlock := store.lock()
	defer unlock()

	rows := store.data.pollsWhere(func(row pollRow) bool { return row.closed })
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].closesAt.Equal(rows[j].closesAt) {
			return rows[i].closesAt.After(rows[j].closesAt)
		}
		return rows[i].id > rows[j].id
	})
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return store.data.forUser(rows, userID), nil
}

// GetAllClosedPollsInfoForUser lists every closed poll by title.
func (store *Store) GetAllClosedPollsInfoForUser(_ context.Context, userID string) ([]safesession.PollInfoForUser, error) {
	unlock := store.lock()
	defer unlock()

	rows := store.data.pollsWhere(func(row pollRow) bool { return row.closed })
	sort.Slice(rows, func(i, j int) bool {
		if c := strings.Compare(rows[i].title, rows[j].title); c != 0 {
			return c < 0
		}
		return rows[i].id < rows[j].id
	})

	return store.data.forUser(rows, userID), nil
}

// GetPollInfoForUser returns one poll with the user's submission.
func (store *Store) GetPollInfoForUser(_ context.Context, userID string, pollID int64) (safesession.PollInfoForUser, error) {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.polls[pollID]
	if !ok {
		return safesession.PollInfoForUser{}, safesession.ErrNotFound
	}
	return store.data.pollInfoForUser(row, userID), nil
}

// SubmitVote upserts the user's submission on an open poll.
func (store *Store) SubmitVote(_ context.Context, pollID int64, userID string, voteA, predictA bool) error {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.polls[pollID]
	if !ok {
		return safesession.ErrNotFound
	}
	if _, ok := store.data.users[userID]; !ok {
		return safesession.ErrNotFound
	}
	if row.closed {
		return safesession.ErrConflict
	}

	store.data.submissions[submissionKey{pollID: pollID, userID: userID}] = safesession.Submission{
		VotedA:     voteA,
		PredictedA: predictA,
	}
	return nil
}
