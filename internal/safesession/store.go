// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"context"
	"errors"
	"time"
)

// # Store Errors

var (
	// ErrNotFound is returned by a store when the addressed row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrConflict is returned by a store on a uniqueness or state violation.
	ErrConflict = errors.New("store: conflict")
)

// # Database Capability

// Database is the raw data-access layer. It performs no authorization checks;
// only this package calls it on behalf of users.
//
// # Error Contract
//
// Implementations return [ErrNotFound] or [ErrConflict] (possibly wrapped) for
// those conditions and any other error for storage failures. The session layer
// translates every error into a [*Fail].
type Database interface {

	/*
		InTx runs fn inside one atomic transaction scope.

		Description: fn receives a Database bound to the transaction. The scope
		rolls back when fn returns an error and is retried (bounded) when the
		failure is transient, such as a serialization conflict or ID collision.
	*/
	InTx(ctx context.Context, fn func(tx Database) error) error

	// # Users

	InsertNewUser(ctx context.Context, user NewUser) (string, error)
	UserExists(ctx context.Context, id string) (bool, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	GetUserAuthDetails(ctx context.Context, email string) (AuthDetails, error)
	GetUserInfo(ctx context.Context, id string) (UserInfo, error)
	UpdateBioForUser(ctx context.Context, id, bio string) error

	// # Polls

	GetAllOpenPollsInfoForUser(ctx context.Context, userID string) ([]PollInfoForUser, error)
	GetLimitedClosedPollsInfoForUser(ctx context.Context, userID string, limit int) ([]PollInfoForUser, error)
	GetAllClosedPollsInfoForUser(ctx context.Context, userID string) ([]PollInfoForUser, error)
	GetPollInfoForUser(ctx context.Context, userID string, pollID int64) (PollInfoForUser, error)
	SubmitVote(ctx context.Context, pollID int64, userID string, voteA, predictA bool) error

	// # Comments

	GetCommentsForPoll(ctx context.Context, pollID int64) ([]Comment, error)
	AddComment(ctx context.Context, pollID int64, userID, content string) (int64, error)
	AddReply(ctx context.Context, commentID int64, userID, content string) (int64, error)

	// # Community

	GetTopStreakUsers(ctx context.Context, limit int) ([]Ranking, error)
	GetTopLifetimePointUsers(ctx context.Context, limit int) ([]Ranking, error)
	GetTopCosmeticCollectors(ctx context.Context, limit int) ([]Ranking, error)
	GetCosmeticsForUser(ctx context.Context, userID string) (Cosmetics, error)
	EquipCosmetic(ctx context.Context, userID string, slot Slot, cosmeticID int64) error
	InsertSuggestion(ctx context.Context, suggestion Suggestion) (int64, error)
}

// # Admin Capability

// PollInput carries the editable fields of a poll.
type PollInput struct {
	Title       string
	Description string
	Options     Options
	ClosesAt    time.Time
	Closed      bool
	SuggestedBy *string
}

// AccountInfo is a user's profile with the private fields admins may see.
type AccountInfo struct {
	UserInfo
	Email string `json:"email"`
}

// Page addresses a slice of a listing.
type Page struct {
	Limit  int
	Offset int
}

// AdminDatabase is the data-access layer behind [AdminSession].
type AdminDatabase interface {
	GetUserRole(ctx context.Context, id string) (string, error)

	ListPolls(ctx context.Context, page Page) ([]PollInfo, int, error)
	GetPoll(ctx context.Context, id int64) (PollInfo, error)
	InsertPoll(ctx context.Context, input PollInput) (int64, error)
	UpdatePoll(ctx context.Context, id int64, input PollInput) error
	DeletePoll(ctx context.Context, id int64) error

	ListUsers(ctx context.Context, page Page) ([]AccountInfo, int, error)
	DeleteUser(ctx context.Context, id string) error

	ListSuggestions(ctx context.Context, page Page) ([]Suggestion, int, error)
	GetSuggestion(ctx context.Context, id int64) (Suggestion, error)
	CreatePollFromSuggestion(ctx context.Context, id int64, closesAt time.Time) (int64, error)
	DismissSuggestion(ctx context.Context, id int64) error
	DeleteSuggestion(ctx context.Context, id int64) error

	ListComments(ctx context.Context, page Page) ([]Comment, int, error)
	DeleteComment(ctx context.Context, id int64) error
	DeleteReply(ctx context.Context, id int64) error
}

// # Credentials

// Claims is what a verified token proves.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// TokenSigner issues and verifies signed, time-boxed session tokens.
type TokenSigner interface {
	Sign(userID string) (string, error)
	Verify(token string) (Claims, error)
}

// PasswordHasher hashes passwords one-way and compares in constant time.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// Revoker keeps signed-out token IDs until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
