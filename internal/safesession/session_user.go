// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// HomepageClosedPolls is how many recently closed polls the homepage shows.
const HomepageClosedPolls = 3

// # Authenticated Session

// Session is an authenticated caller. It is minted only by [Guard.FromJWT].
// Every operation is scoped to the session's [CurrentUser].
type Session struct {
	*UnauthenticatedSession

	currentUser CurrentUser
	claims      Claims
}

func newSession(c capability, g *Guard, claims Claims) *Session {
	guard(c, "Session")
	return &Session{
		UnauthenticatedSession: newUnauthenticatedSession(c, g),
		currentUser:            newCurrentUser(c, g, claims.UserID),
		claims:                 claims,
	}
}

// Authenticated narrows a [Requester] to the authenticated session.
func (session *Session) Authenticated() (*Session, bool) {
	session.check()
	return session, true
}

// CurrentUser returns the user this session belongs to.
func (session *Session) CurrentUser() CurrentUser {
	session.check()
	return session.currentUser
}

// ExpiresAt reports when the session token stops being valid.
func (session *Session) ExpiresAt() time.Time {
	return session.claims.ExpiresAt
}

// GetRealUser short-circuits to the current user when id matches it.
func (session *Session) GetRealUser(ctx context.Context, id string) (User, error) {
	session.check()
	if id == session.currentUser.id {
		return session.currentUser.User, nil
	}
	return session.guard.realUser(ctx, id)
}

// CreateNewUser always fails: sign out before registering another account.
func (session *Session) CreateNewUser(context.Context, ValidDisplayName, ValidEmail, ValidPassword) (User, error) {
	return User{}, fail(Unauthorized, "Already signed in. Sign out before creating a new user.")
}

// # Polls

/*
GetPollInfo loads one poll with the caller's submission, redacted.

Returns:
  - PollInfoForUser: the poll
  - error: [Nonexistent] if the poll does not exist, [DatabaseFault] otherwise
*/
func (session *Session) GetPollInfo(ctx context.Context, pollID int64) (PollInfoForUser, error) {
	session.check()

	info, err := session.guard.db.GetPollInfoForUser(ctx, session.currentUser.id, pollID)
	if err != nil {
		return PollInfoForUser{}, translate(err, "Poll not found", "Poll unavailable", "Could not load poll")
	}

	Redact(&info)
	return info, nil
}

/*
GetHomepagePollInfos loads every open poll and the most recently closed ones.

Description: The two lists are fetched concurrently and joined open-first
before redaction.
*/
func (session *Session) GetHomepagePollInfos(ctx context.Context) ([]PollInfoForUser, error) {
	session.check()

	var open, closed []PollInfoForUser
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		open, err = session.guard.db.GetAllOpenPollsInfoForUser(groupCtx, session.currentUser.id)
		return err
	})
	group.Go(func() error {
		var err error
		closed, err = session.guard.db.GetLimitedClosedPollsInfoForUser(groupCtx, session.currentUser.id, HomepageClosedPolls)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, fault("Could not load polls", err)
	}

	infos := make([]PollInfoForUser, 0, len(open)+len(closed))
	infos = append(infos, open...)
	infos = append(infos, closed...)

	return redactAll(infos), nil
}

// GetClosedPollInfos loads every closed poll for the archive, redacted.
func (session *Session) GetClosedPollInfos(ctx context.Context) ([]PollInfoForUser, error) {
	session.check()

	infos, err := session.guard.db.GetAllClosedPollsInfoForUser(ctx, session.currentUser.id)
	if err != nil {
		return nil, fault("Failed to fetch closed polls.", err)
	}

	return redactAll(infos), nil
}

/*
SubmitVote records the caller's vote and prediction.

Description: Resubmitting overwrites the earlier choice; the return value is
the same either way.

Returns:
  - error: [Unauthorized] for a missing poll ID, [Nonexistent] for an unknown
    poll, [Conflict] for a closed poll, [DatabaseFault] otherwise
*/
func (session *Session) SubmitVote(ctx context.Context, pollID int64, voteA, predictA bool) error {
	session.check()

	if pollID <= 0 {
		return fail(Unauthorized, "Poll ID is required to submit a vote.")
	}

	if err := session.guard.db.SubmitVote(ctx, pollID, session.currentUser.id, voteA, predictA); err != nil {
		return translate(err, "Poll not found", "Poll is closed", "Failed to submit vote. Try again later.")
	}

	return nil
}

// # Comments

/*
AddComment posts a comment on a poll as the current user.

Returns:
  - int64: the new comment ID
  - error: [Unauthorized] for blank content (checked before any store call),
    [Nonexistent] for an unknown poll, [DatabaseFault] otherwise
*/
func (session *Session) AddComment(ctx context.Context, pollID int64, content string) (int64, error) {
	session.check()

	text, err := ValidateContent(content)
	if err != nil {
		return 0, fail(Unauthorized, contentMessage("Comment", err))
	}

	id, err := session.guard.db.AddComment(ctx, pollID, session.currentUser.id, text.value)
	if err != nil {
		return 0, translate(err, "Poll not found", "Poll unavailable", "Could not add comment")
	}

	return id, nil
}

// AddReply answers a comment as the current user. Failures mirror [Session.AddComment].
func (session *Session) AddReply(ctx context.Context, commentID int64, content string) (int64, error) {
	session.check()

	text, err := ValidateContent(content)
	if err != nil {
		return 0, fail(Unauthorized, contentMessage("Reply", err))
	}

	id, err := session.guard.db.AddReply(ctx, commentID, session.currentUser.id, text.value)
	if err != nil {
		return 0, translate(err, "Comment not found", "Comment unavailable", "Could not add reply")
	}

	return id, nil
}

// GetCommentsForPoll returns the poll's comments oldest first, each with its
// replies nested oldest first.
func (session *Session) GetCommentsForPoll(ctx context.Context, pollID int64) ([]Comment, error) {
	session.check()

	comments, err := session.guard.db.GetCommentsForPoll(ctx, pollID)
	if err != nil {
		return nil, fault("Failed to fetch comments for the poll.", err)
	}

	return comments, nil
}

// # Profile

// UpdateBio replaces the current user's bio.
func (session *Session) UpdateBio(ctx context.Context, bio ValidContent) error {
	session.check()

	text := mustBeValid(bio.value, "bio")
	if err := session.guard.db.UpdateBioForUser(ctx, session.currentUser.id, text); err != nil {
		return translate(err, "User not found", "Bio unavailable", "Could not update bio")
	}

	return nil
}

// Cosmetics returns the cosmetics the current user owns and can still buy.
func (session *Session) Cosmetics(ctx context.Context) (Cosmetics, error) {
	session.check()

	cosmetics, err := session.guard.db.GetCosmeticsForUser(ctx, session.currentUser.id)
	if err != nil {
		return Cosmetics{}, fault("Could not load cosmetics", err)
	}

	return cosmetics, nil
}

/*
EquipCosmetic displays an owned cosmetic in slot.

Returns:
  - error: [Nonexistent] if the current user does not own the cosmetic,
    [DatabaseFault] otherwise
*/
func (session *Session) EquipCosmetic(ctx context.Context, slot Slot, cosmeticID int64) error {
	session.check()

	if _, ok := ParseSlot(string(slot)); !ok {
		return fail(Nonexistent, "Unknown cosmetic slot")
	}

	if err := session.guard.db.EquipCosmetic(ctx, session.currentUser.id, slot, cosmeticID); err != nil {
		return translate(err, "Cosmetic not owned", "Cosmetic unavailable", "Could not equip cosmetic")
	}

	return nil
}

// SuggestPoll files a poll suggestion for admin review.
func (session *Session) SuggestPoll(ctx context.Context, title, description, optionA, optionB ValidContent) (Suggestion, error) {
	session.check()

	suggestion := Suggestion{
		SuggesterID: session.currentUser.id,
		Title:       mustBeValid(title.value, "title"),
		Description: mustBeValid(description.value, "description"),
		Options: Options{
			A: mustBeValid(optionA.value, "option A"),
			B: mustBeValid(optionB.value, "option B"),
		},
	}

	id, err := session.guard.db.InsertSuggestion(ctx, suggestion)
	if err != nil {
		return Suggestion{}, fault("Could not save suggestion", err)
	}

	suggestion.ID = id
	return suggestion, nil
}

// # Sign Out

// SignOut revokes the session token so it cannot be replayed before expiry.
// Without a revocation list it is a no-op; the caller still clears the cookie.
func (session *Session) SignOut(ctx context.Context) error {
	session.check()

	if session.guard.revoker == nil || session.claims.TokenID == "" {
		return nil
	}

	if err := session.guard.revoker.Revoke(ctx, session.claims.TokenID, session.claims.ExpiresAt); err != nil {
		return fault("Could not sign out", err)
	}

	session.guard.logger.InfoContext(ctx, "session_revoked",
		slog.String("user_id", session.currentUser.id),
		slog.String("token_id", session.claims.TokenID),
	)

	return nil
}

func contentMessage(what string, err error) string {
	if err == TooLong {
		return what + " content is too long."
	}
	return what + " content cannot be empty."
}
