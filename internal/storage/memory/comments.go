// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"
	"sort"

	"github.com/taibuivan/wevote/internal/safesession"
)

func (s *state) repliesFor(commentID int64) []safesession.Reply {
	replies := []safesession.Reply{}
	for _, row := range s.replies {
		if row.commentID != commentID {
			continue
		}
		replies = append(replies, safesession.Reply{
			ID:        row.id,
			CommentID: row.commentID,
			Author:    s.author(row.userID),
			Content:   row.content,
			CreatedAt: row.createdAt,
		})
	}
	sort.Slice(replies, func(i, j int) bool {
		if !replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		}
		return replies[i].ID < replies[j].ID
	})
	return replies
}

func (s *state) comment(row commentRow) safesession.Comment {
	return safesession.Comment{
		ID:        row.id,
		PollID:    row.pollID,
		Author:    s.author(row.userID),
		Content:   row.content,
		CreatedAt: row.createdAt,
		Replies:   s.repliesFor(row.id),
	}
}

// GetCommentsForPoll lists a poll's comments oldest first with replies nested.
func (store *Store) GetCommentsForPoll(_ context.Context, pollID int64) ([]safesession.Comment, error) {
	unlock := store.lock()
	defer unlock()

	comments := []safesession.Comment{}
	for _, row := range store.data.comments {
		if row.pollID == pollID {
			comments = append(comments, store.data.comment(row))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

// AddComment stores a comment on an existing poll.
func (store *Store) AddComment(_ context.Context, pollID int64, userID, content string) (int64, error) {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.polls[pollID]; !ok {
		return 0, safesession.ErrNotFound
	}
	if _, ok := store.data.users[userID]; !ok {
		return 0, safesession.ErrNotFound
	}

	id := store.data.id()
	store.data.comments[id] = commentRow{id: id, pollID: pollID, userID: userID, content: content, createdAt: store.now()}
	return id, nil
}

// AddReply stores a reply to an existing comment.
func (store *Store) AddReply(_ context.Context, commentID int64, userID, content string) (int64, error) {
	unlock := store.lock()
	defer unlock()

	if _, ok := store.data.comments[commentID]; !ok {
		return 0, safesession.ErrNotFound
	}
	if _, ok := store.data.users[userID]; !ok {
		return 0, safesession.ErrNotFound
	}

	id := store.data.id()
	store.data.replies[id] = replyRow{id: id, commentID: commentID, userID: userID, content: content, createdAt: store.now()}
	return id, nil
}
