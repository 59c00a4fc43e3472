// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/slice"
)

// window returns the [start, end) bounds of page within total items.
func window(page safesession.Page, total int) (int, int) {
	start := page.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if page.Limit > 0 && start+page.Limit < total {
		end = start + page.Limit
	}
	return start, end
}

// GetUserRole returns the stored role of id.
func (store *Store) GetUserRole(_ context.Context, id string) (string, error) {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.users[id]
	if !ok {
		return "", safesession.ErrNotFound
	}
	return row.info.Role, nil
}

// SetRole changes the stored role of id.
func (store *Store) SetRole(id, role string) {
	unlock := store.lock()
	defer unlock()

	if row, ok := store.data.users[id]; ok {
		row.info.Role = role
		store.data.users[id] = row
	}
}

// # Polls

// ListPolls lists polls newest first.
func (store *Store) ListPolls(_ context.Context, page safesession.Page) ([]safesession.PollInfo, int, error) {
	unlock := store.lock()
	defer unlock()

	rows := store.data.pollsWhere(func(pollRow) bool { return true })
	sort.Slice(rows, func(i, j int) bool { return rows[i].id > rows[j].id })

	start, end := window(page, len(rows))
	return slice.Map(rows[start:end], store.data.pollInfo), len(rows), nil
}

// GetPoll returns one poll with its live tally.
func (store *Store) GetPoll(_ context.Context, id int64) (safesession.PollInfo, error) {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.polls[id]
	if !ok {
		return safesession.PollInfo{}, safesession.ErrNotFound
	}
	return store.data.pollInfo(row), nil
}

// InsertPoll stores a new poll.
func (store *Store) InsertPoll(_ context.Context, input safesession.PollInput) (int64, error) {
	unlock := store.lock()
	defer unlock()

	return store.data.insertPoll(input, store.now())
}

func (s *state) insertPoll(input safesession.PollInput, now time.Time) (int64, error) {
	if input.SuggestedBy != nil {
		if _, ok := s.users[*input.SuggestedBy]; !ok {
			return 0, safesession.ErrNotFound
		}
	}

	id := s.id()
	s.polls[id] = pollRow{
		id:          id,
		title:       input.Title,
		description: input.Description,
		options:     input.Options,
		closed:      input.Closed,
		createdAt:   now,
		closesAt:    input.ClosesAt,
		suggestedBy: input.SuggestedBy,
	}
	return id, nil
}

// UpdatePoll replaces the editable fields of a poll.
func (store *Store) UpdatePoll(_ context.Context, id int64, input safesession.PollInput) error {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.polls[id]
	if !ok {
		return safesession.ErrNotFound
	}
	row.title = input.Title
	row.description = input.Description
	row.options = input.Options
	row.closesAt = input.ClosesAt
	row.closed = input.Closed
	store.data.polls[id] = row
	return nil
}

// DeletePoll removes a poll with its submissions, comments and replies.
func (store *Store) DeletePoll(_ context.Context, id int64) error {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.polls[id]; !ok {
		return safesession.ErrNotFound
	}
	delete(store.data.polls, id)

	for key := range store.data.submissions {
		if key.pollID == id {
			delete(store.data.submissions, key)
		}
	}
	for commentID, row := range store.data.comments {
		if row.pollID == id {
			store.data.deleteComment(commentID)
		}
	}
	return nil
}

// # Users

// ListUsers lists accounts newest first.
func (store *Store) ListUsers(_ context.Context, page safesession.Page) ([]safesession.AccountInfo, int, error) {
	unlock := store.lock()
	defer unlock()

	accounts := make([]safesession.AccountInfo, 0, len(store.data.users))
	for _, row := range store.data.users {
		accounts = append(accounts, safesession.AccountInfo{UserInfo: row.info, Email: row.email})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID > accounts[j].ID })

	start, end := window(page, len(accounts))
	return accounts[start:end], len(accounts), nil
}

// DeleteUser removes an account with its submissions, comments, replies,
// suggestions and owned cosmetics. Polls it suggested lose the attribution.
func (store *Store) DeleteUser(_ context.Context, id string) error {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.users[id]; !ok {
		return safesession.ErrNotFound
	}
	delete(store.data.users, id)
	delete(store.data.owned, id)

	for key := range store.data.submissions {
		if key.userID == id {
			delete(store.data.submissions, key)
		}
	}
	for commentID, row := range store.data.comments {
		if row.userID == id {
			store.data.deleteComment(commentID)
		}
	}
	for replyID, row := range store.data.replies {
		if row.userID == id {
			delete(store.data.replies, replyID)
		}
	}
	for suggestionID, suggestion := range store.data.suggestions {
		if suggestion.SuggesterID == id {
			delete(store.data.suggestions, suggestionID)
		}
	}
	for pollID, row := range store.data.polls {
		if row.suggestedBy != nil && *row.suggestedBy == id {
			row.suggestedBy = nil
			store.data.polls[pollID] = row
		}
	}
	return nil
}

// # Suggestions

// ListSuggestions lists suggestions not yet dismissed, newest first.
func (store *Store) ListSuggestions(_ context.Context, page safesession.Page) ([]safesession.Suggestion, int, error) {
	unlock := store.lock()
	defer unlock()

	pending := make([]safesession.Suggestion, 0, len(store.data.suggestions))
	for _, suggestion := range store.data.suggestions {
		if !suggestion.Dismissed {
			pending = append(pending, suggestion)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID > pending[j].ID })

	start, end := window(page, len(pending))
	return pending[start:end], len(pending), nil
}

// GetSuggestion returns one suggestion.
func (store *Store) GetSuggestion(_ context.Context, id int64) (safesession.Suggestion, error) {
	unlock := store.lock()
	defer unlock()

	suggestion, ok := store.data.suggestions[id]
	if !ok {
		return safesession.Suggestion{}, safesession.ErrNotFound
	}
	return suggestion, nil
}

// CreatePollFromSuggestion inserts a poll from a pending suggestion and dismisses it.
func (store *Store) CreatePollFromSuggestion(_ context.Context, id int64, closesAt time.Time) (int64, error) {
	unlock := store.lock()
	defer unlock()

	suggestion, ok := store.data.suggestions[id]
	if !ok {
		return 0, safesession.ErrNotFound
	}
	if suggestion.Dismissed {
		return 0, safesession.ErrConflict
	}

	suggester := suggestion.SuggesterID
	pollID, err := store.data.insertPoll(safesession.PollInput{
		Title:       suggestion.Title,
		Description: suggestion.Description,
		Options:     suggestion.Options,
		ClosesAt:    closesAt,
		SuggestedBy: &suggester,
	}, store.now())
	if err != nil {
		return 0, err
	}

	suggestion.Dismissed = true
	store.data.suggestions[id] = suggestion
	return pollID, nil
}

// DismissSuggestion marks a suggestion handled.
func (store *Store) DismissSuggestion(_ context.Context, id int64) error {
	unlock := store.lock()
	defer unlock()

	suggestion, ok := store.data.suggestions[id]
	if !ok {
		return safesession.ErrNotFound
	}
	suggestion.Dismissed = true
	store.data.suggestions[id] = suggestion
	return nil
}

// DeleteSuggestion removes a suggestion.
func (store *Store) DeleteSuggestion(_ context.Context, id int64) error {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.suggestions[id]; !ok {
		return safesession.ErrNotFound
	}
	delete(store.data.suggestions, id)
	return nil
}

// # Comments

// ListComments lists every comment newest first with replies nested.
func (store *Store) ListComments(_ context.Context, page safesession.Page) ([]safesession.Comment, int, error) {
	unlock := store.lock()
	defer unlock()

	comments := make([]safesession.Comment, 0, len(store.data.comments))
	for _, row := range store.data.comments {
		comments = append(comments, store.data.comment(row))
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID > comments[j].ID })

	start, end := window(page, len(comments))
	return comments[start:end], len(comments), nil
}

// DeleteComment removes a comment and its replies.
func (store *Store) DeleteComment(_ context.Context, id int64) error {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.comments[id]; !ok {
		return safesession.ErrNotFound
	}
	store.data.deleteComment(id)
	return nil
}

// DeleteReply removes one reply.
func (store *Store) DeleteReply(_ context.Context, id int64) error {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.replies[id]; !ok {
		return safesession.ErrNotFound
	}
	delete(store.data.replies, id)
	return nil
}

func (s *state) deleteComment(id int64) {
	delete(s.comments, id)
	for replyID, row := range s.replies {
		if row.commentID == id {
			delete(s.replies, replyID)
		}
	}
}
