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

// # Comments

// commentSelect joins each comment with its author's display name.
var commentSelect = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
	FROM %s c
	JOIN %s a ON a.%s = c.%s`,
	schema.Comment.ID, schema.Comment.PollID, schema.Comment.UserID,
	schema.Account.DisplayName, schema.Comment.Content, schema.Comment.CreatedAt,
	schema.Comment.Table, schema.Account.Table, schema.Account.ID, schema.Comment.UserID,
)

func scanComment(row pgx.CollectableRow) (safesession.Comment, error) {
	comment := safesession.Comment{Replies: []safesession.Reply{}}
	err := row.Scan(
		&comment.ID, &comment.PollID, &comment.Author.ID,
		&comment.Author.DisplayName, &comment.Content, &comment.CreatedAt,
	)
	return comment, err
}

func scanReply(row pgx.CollectableRow) (safesession.Reply, error) {
	var reply safesession.Reply
	err := row.Scan(
		&reply.ID, &reply.CommentID, &reply.Author.ID,
		&reply.Author.DisplayName, &reply.Content, &reply.CreatedAt,
	)
	return reply, err
}

// attachReplies loads the replies of comments in one query and nests them
// oldest first.
func (repository *PostgresStore) attachReplies(context context.Context, comments []safesession.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]int64, len(comments))
	index := make(map[int64]int, len(comments))
	for i, comment := range comments {
		ids[i] = comment.ID
		index[comment.ID] = i
	}

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = ANY($1)
		ORDER BY r.%s ASC, r.%s ASC`,
		schema.Reply.ID, schema.Reply.CommentID, schema.Reply.UserID,
		schema.Account.DisplayName, schema.Reply.Content, schema.Reply.CreatedAt,
		schema.Reply.Table, schema.Account.Table, schema.Account.ID, schema.Reply.UserID,
		schema.Reply.CommentID,
		schema.Reply.CreatedAt, schema.Reply.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return err
	}

	replies, err := pgx.CollectRows(rows, scanReply)
	if err != nil {
		return err
	}

	for _, reply := range replies {
		if i, ok := index[reply.CommentID]; ok {
			comments[i].Replies = append(comments[i].Replies, reply)
		}
	}
	return nil
}

/*
GetCommentsForPoll lists a poll's comments oldest first with replies nested.

Parameters:
  - context: context.Context
  - pollID: int64

Returns:
  - []safesession.Comment: empty (not nil) when the poll has no comments
  - error: a storage failure
*/
func (repository *PostgresStore) GetCommentsForPoll(context context.Context, pollID int64) ([]safesession.Comment, error) {
	query := commentSelect + fmt.Sprintf(`
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC`,
		schema.Comment.PollID, schema.Comment.CreatedAt, schema.Comment.ID)

	rows, err := repository.db.Query(context, query, pollID)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_comment_repo_list_failed")
	}

	comments, err := pgx.CollectRows(rows, scanComment)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_comment_repo_list_failed")
	}

	if err := repository.attachReplies(context, comments); err != nil {
		return nil, dberr.Wrap(err, "postgres_comment_repo_replies_failed")
	}

	if comments == nil {
		comments = []safesession.Comment{}
	}
	return comments, nil
}

// AddComment stores a comment. A missing poll or user surfaces as
// safesession.ErrNotFound through the foreign keys.
func (repository *PostgresStore) AddComment(context context.Context, pollID int64, userID, content string) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s`,
		schema.Comment.Table,
		schema.Comment.PollID, schema.Comment.UserID, schema.Comment.Content,
		schema.Comment.ID,
	)

	var id int64
	if err := repository.db.QueryRow(context, query, pollID, userID, content).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, "postgres_comment_repo_add_failed")
	}
	return id, nil
}

// AddReply stores a reply to an existing comment.
func (repository *PostgresStore) AddReply(context context.Context, commentID int64, userID, content string) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s`,
		schema.Reply.Table,
		schema.Reply.CommentID, schema.Reply.UserID, schema.Reply.Content,
		schema.Reply.ID,
	)

	var id int64
	if err := repository.db.QueryRow(context, query, commentID, userID, content).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, "postgres_comment_repo_reply_failed")
	}
	return id, nil
}
