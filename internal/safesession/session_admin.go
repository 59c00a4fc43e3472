// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// RoleAdmin is the stored role that may elevate to an [AdminSession].
	RoleAdmin = "admin"

	// SuggestionPollLifetime is how long a poll created from a suggestion stays open.
	SuggestionPollLifetime = 7 * 24 * time.Hour
)

// # Admin Session

// AdminSession is a [Session] whose user was confirmed to hold the admin role.
type AdminSession struct {
	*Session
}

func newAdminSession(c capability, s *Session) *AdminSession {
	guard(c, "AdminSession")
	return &AdminSession{Session: s}
}

/*
Admin elevates the session after reading the user's role from the Database.

Returns:
  - *AdminSession: the elevated session
  - error: [Unauthorized] unless the current user is an admin, [DatabaseFault]
    when the role cannot be read
*/
func (session *Session) Admin(ctx context.Context) (*AdminSession, error) {
	session.check()

	if session.guard.admin == nil {
		return nil, fail(Unauthorized, "Administration is not available")
	}

	role, err := session.guard.admin.GetUserRole(ctx, session.currentUser.id)
	if errors.Is(err, ErrNotFound) {
		return nil, &Fail{Kind: Unauthorized, Message: "Administrator access required", Cause: err}
	}
	if err != nil {
		return nil, fault("Could not check role", err)
	}
	if role != RoleAdmin {
		return nil, fail(Unauthorized, "Administrator access required")
	}

	return newAdminSession(sealed, session), nil
}

func (admin *AdminSession) audit(ctx context.Context, action string, attrs ...slog.Attr) {
	args := []any{
		slog.String("admin_id", admin.currentUser.id),
		slog.String("action", action),
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}
	admin.guard.logger.InfoContext(ctx, "admin_action", args...)
}

// # Polls

// ListPolls returns polls newest first with unredacted results and the total count.
func (admin *AdminSession) ListPolls(ctx context.Context, page Page) ([]PollInfo, int, error) {
	admin.check()

	polls, total, err := admin.guard.admin.ListPolls(ctx, page)
	if err != nil {
		return nil, 0, fault("Could not list polls", err)
	}
	return polls, total, nil
}

// GetPoll returns one poll with unredacted results.
func (admin *AdminSession) GetPoll(ctx context.Context, id int64) (PollInfo, error) {
	admin.check()

	poll, err := admin.guard.admin.GetPoll(ctx, id)
	if err != nil {
		return PollInfo{}, translate(err, "Poll not found", "Poll unavailable", "Could not load poll")
	}
	return poll, nil
}

// CreatePoll inserts a new poll.
func (admin *AdminSession) CreatePoll(ctx context.Context, input PollInput) (int64, error) {
	admin.check()

	id, err := admin.guard.admin.InsertPoll(ctx, input)
	if err != nil {
		return 0, translate(err, "Suggester not found", "Poll already exists", "Could not create poll")
	}

	admin.audit(ctx, "poll_created", slog.Int64("poll_id", id))
	return id, nil
}

// UpdatePoll replaces the editable fields of a poll. Closing a poll here only
// flips the flag.
func (admin *AdminSession) UpdatePoll(ctx context.Context, id int64, input PollInput) error {
	admin.check()

	if err := admin.guard.admin.UpdatePoll(ctx, id, input); err != nil {
		return translate(err, "Poll not found", "Poll unavailable", "Could not update poll")
	}

	admin.audit(ctx, "poll_updated", slog.Int64("poll_id", id), slog.Bool("closed", input.Closed))
	return nil
}

// DeletePoll removes a poll with its submissions, comments and replies.
func (admin *AdminSession) DeletePoll(ctx context.Context, id int64) error {
	admin.check()

	if err := admin.guard.admin.DeletePoll(ctx, id); err != nil {
		return translate(err, "Poll not found", "Poll unavailable", "Could not delete poll")
	}

	admin.audit(ctx, "poll_deleted", slog.Int64("poll_id", id))
	return nil
}

// # Users

// ListUsers returns accounts with their emails and the total count.
func (admin *AdminSession) ListUsers(ctx context.Context, page Page) ([]AccountInfo, int, error) {
	admin.check()

	users, total, err := admin.guard.admin.ListUsers(ctx, page)
	if err != nil {
		return nil, 0, fault("Could not list users", err)
	}
	return users, total, nil
}

/*
DeleteUser removes an account and everything it authored.

Returns:
  - error: [Conflict] when an admin targets their own account, [Nonexistent]
    for an unknown user, [DatabaseFault] otherwise
*/
func (admin *AdminSession) DeleteUser(ctx context.Context, id string) error {
	admin.check()

	if id == admin.currentUser.id {
		return fail(Conflict, "Administrators cannot delete their own account")
	}

	if err := admin.guard.admin.DeleteUser(ctx, id); err != nil {
		return translate(err, "User not found", "User unavailable", "Could not delete user")
	}

	admin.audit(ctx, "user_deleted", slog.String("user_id", id))
	return nil
}

// # Suggestions

// ListSuggestions returns suggestions that were not dismissed.
func (admin *AdminSession) ListSuggestions(ctx context.Context, page Page) ([]Suggestion, int, error) {
	admin.check()

	suggestions, total, err := admin.guard.admin.ListSuggestions(ctx, page)
	if err != nil {
		return nil, 0, fault("Could not list suggestions", err)
	}
	return suggestions, total, nil
}

// GetSuggestion returns one suggestion.
func (admin *AdminSession) GetSuggestion(ctx context.Context, id int64) (Suggestion, error) {
	admin.check()

	suggestion, err := admin.guard.admin.GetSuggestion(ctx, id)
	if err != nil {
		return Suggestion{}, translate(err, "Suggestion not found", "Suggestion unavailable", "Could not load suggestion")
	}
	return suggestion, nil
}

/*
ApproveSuggestion turns a suggestion into a poll open for [SuggestionPollLifetime]
and dismisses the suggestion. The store does both atomically.

Returns:
  - int64: the new poll ID
  - error: [Nonexistent] for an unknown suggestion, [Conflict] when it was
    already handled, [DatabaseFault] otherwise
*/
func (admin *AdminSession) ApproveSuggestion(ctx context.Context, id int64, now time.Time) (int64, error) {
	admin.check()

	pollID, err := admin.guard.admin.CreatePollFromSuggestion(ctx, id, now.Add(SuggestionPollLifetime))
	if err != nil {
		return 0, translate(err, "Suggestion not found", "Suggestion was already handled", "Could not create poll from suggestion")
	}

	admin.audit(ctx, "suggestion_approved", slog.Int64("suggestion_id", id), slog.Int64("poll_id", pollID))
	return pollID, nil
}

// DismissSuggestion hides a suggestion without creating a poll.
func (admin *AdminSession) DismissSuggestion(ctx context.Context, id int64) error {
	admin.check()

	if err := admin.guard.admin.DismissSuggestion(ctx, id); err != nil {
		return translate(err, "Suggestion not found", "Suggestion unavailable", "Could not dismiss suggestion")
	}

	admin.audit(ctx, "suggestion_dismissed", slog.Int64("suggestion_id", id))
	return nil
}

// DeleteSuggestion removes a suggestion.
func (admin *AdminSession) DeleteSuggestion(ctx context.Context, id int64) error {
	admin.check()

	if err := admin.guard.admin.DeleteSuggestion(ctx, id); err != nil {
		return translate(err, "Suggestion not found", "Suggestion unavailable", "Could not delete suggestion")
	}

	admin.audit(ctx, "suggestion_deleted", slog.Int64("suggestion_id", id))
	return nil
}

// # Comments

// ListComments returns comments newest first with their replies nested.
func (admin *AdminSession) ListComments(ctx context.Context, page Page) ([]Comment, int, error) {
	admin.check()

	comments, total, err := admin.guard.admin.ListComments(ctx, page)
	if err != nil {
		return nil, 0, fault("Could not list comments", err)
	}
	return comments, total, nil
}

// DeleteComment removes a comment and its replies.
func (admin *AdminSession) DeleteComment(ctx context.Context, id int64) error {
	admin.check()

	if err := admin.guard.admin.DeleteComment(ctx, id); err != nil {
		return translate(err, "Comment not found", "Comment unavailable", "Could not delete comment")
	}

	admin.audit(ctx, "comment_deleted", slog.Int64("comment_id", id))
	return nil
}

// DeleteReply removes one reply.
func (admin *AdminSession) DeleteReply(ctx context.Context, id int64) error {
	admin.check()

	if err := admin.guard.admin.DeleteReply(ctx, id); err != nil {
		return translate(err, "Reply not found", "Reply unavailable", "Could not delete reply")
	}

	admin.audit(ctx, "reply_deleted", slog.Int64("reply_id", id))
	return nil
}
