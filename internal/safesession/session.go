// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLeaderboardSize is used when a caller asks for a non-positive size.
	DefaultLeaderboardSize = 10

	// MaxLeaderboardSize bounds leaderboard queries.
	MaxLeaderboardSize = 50
)

// # Requester

// Requester is implemented by both session kinds. Middleware stores one per
// request; handlers narrow it with [Requester.Authenticated].
type Requester interface {
	// Authenticated returns the authenticated session, if any.
	Authenticated() (*Session, bool)

	User(id string) PossibleUser
	GetRealUser(ctx context.Context, id string) (User, error)
	CreateNewUser(ctx context.Context, displayName ValidDisplayName, email ValidEmail, password ValidPassword) (User, error)
	ConstructJWT(ctx context.Context, email ValidEmail, password ValidPassword) (string, error)
	Leaderboards(ctx context.Context, size int) (Leaderboards, error)
}

// # Unauthenticated Session

// UnauthenticatedSession holds the operations anyone may perform.
type UnauthenticatedSession struct {
	seal  capability
	guard *Guard
}

func newUnauthenticatedSession(c capability, g *Guard) *UnauthenticatedSession {
	guard(c, "UnauthenticatedSession")
	return &UnauthenticatedSession{seal: c, guard: g}
}

func (session *UnauthenticatedSession) check() {
	guard(session.seal, "UnauthenticatedSession")
}

// Authenticated always reports false for an anonymous session.
func (session *UnauthenticatedSession) Authenticated() (*Session, bool) {
	return nil, false
}

// User tags id as a possible user ID. It performs no I/O.
func (session *UnauthenticatedSession) User(id string) PossibleUser {
	session.check()
	return newPossibleUser(sealed, session.guard, id)
}

/*
GetRealUser returns a [User] only if id currently exists.

Returns:
  - User: the confirmed user
  - error: [Nonexistent] if absent, [DatabaseFault] if the check failed
*/
func (session *UnauthenticatedSession) GetRealUser(ctx context.Context, id string) (User, error) {
	session.check()
	return session.guard.realUser(ctx, id)
}

/*
CreateNewUser registers an account.

Description: The email check and the insert run in one transaction scope so a
concurrent registration of the same email cannot slip between them. The
password is hashed before the scope opens to keep the transaction short.

Returns:
  - User: the new user
  - error: [Conflict] if the email is registered, [DatabaseFault] otherwise
*/
func (session *UnauthenticatedSession) CreateNewUser(ctx context.Context, displayName ValidDisplayName, email ValidEmail, password ValidPassword) (User, error) {
	session.check()

	name := mustBeValid(displayName.value, "display name")
	address := mustBeValid(email.value, "email")
	secret := mustBeValid(password.value, "password")

	passwordHash, err := session.guard.hasher.Hash(secret)
	if err != nil {
		return User{}, fault("Could not hash password", err)
	}

	var userID string
	err = session.guard.db.InTx(ctx, func(tx Database) error {
		exists, err := tx.UserExistsByEmail(ctx, address)
		if err != nil {
			return err
		}
		if exists {
			return fail(Conflict, "An account with this email already exists")
		}

		userID, err = tx.InsertNewUser(ctx, NewUser{
			DisplayName:  name,
			Email:        address,
			PasswordHash: passwordHash,
			Bio:          DefaultBio,
		})
		return err
	})

	if err != nil {
		return User{}, translate(err,
			"Could not insert user",
			"An account with this email already exists",
			"Could not insert user to database, another user may exist with the same email",
		)
	}
	if userID == "" {
		return User{}, fault("Could not insert user to database", nil)
	}

	session.guard.logger.InfoContext(ctx, "user_created", slog.String("user_id", userID))

	return newUser(sealed, session.guard, userID), nil
}

/*
ConstructJWT exchanges credentials for a signed session token.

Description: An unknown email and a wrong password fail identically. For an
unknown email a decoy hash is still compared so both paths cost the same.

Returns:
  - string: a token valid for the signer's lifetime (14 days by default)
  - error: [Unauthorized]
*/
func (session *UnauthenticatedSession) ConstructJWT(ctx context.Context, email ValidEmail, password ValidPassword) (string, error) {
	session.check()

	address := mustBeValid(email.value, "email")
	secret := mustBeValid(password.value, "password")

	details, err := session.guard.db.GetUserAuthDetails(ctx, address)
	if err != nil {
		session.guard.hasher.Compare(secret, session.guard.decoyHash())
		return "", &Fail{Kind: Unauthorized, Message: "Invalid email or password", Cause: err}
	}

	if !session.guard.hasher.Compare(secret, details.Hash) {
		return "", fail(Unauthorized, "Invalid email or password")
	}

	token, err := session.guard.signer.Sign(details.ID)
	if err != nil {
		return "", &Fail{Kind: Unauthorized, Message: "Could not issue session token", Cause: err}
	}

	return token, nil
}

/*
Leaderboards loads the three public rankings concurrently.

Returns:
  - Leaderboards: top streaks, lifetime points and cosmetic collectors
  - error: [DatabaseFault] if any ranking fails
*/
func (session *UnauthenticatedSession) Leaderboards(ctx context.Context, size int) (Leaderboards, error) {
	session.check()

	if size <= 0 {
		size = DefaultLeaderboardSize
	}
	if size > MaxLeaderboardSize {
		size = MaxLeaderboardSize
	}

	var boards Leaderboards
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		rankings, err := session.guard.db.GetTopStreakUsers(groupCtx, size)
		boards.Streak = rankings
		return err
	})
	group.Go(func() error {
		rankings, err := session.guard.db.GetTopLifetimePointUsers(groupCtx, size)
		boards.LifetimePoints = rankings
		return err
	})
	group.Go(func() error {
		rankings, err := session.guard.db.GetTopCosmeticCollectors(groupCtx, size)
		boards.Collectors = rankings
		return err
	})

	if err := group.Wait(); err != nil {
		return Leaderboards{}, fault("Could not load leaderboards", err)
	}

	return boards, nil
}
