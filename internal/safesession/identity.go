// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"context"
	"errors"
)

// # Identity Chain

// PossibleUser is a string asserted, but not verified, to be a user ID.
type PossibleUser struct {
	seal  capability
	id    string
	guard *Guard
}

// User is a user ID confirmed to exist at check time. Later queries may still
// fail with [Nonexistent] or [DatabaseFault].
type User struct {
	PossibleUser
}

// CurrentUser is the identity bound to the authenticated session.
type CurrentUser struct {
	User
}

func newPossibleUser(c capability, g *Guard, id string) PossibleUser {
	guard(c, "PossibleUser")
	return PossibleUser{seal: c, id: id, guard: g}
}

func newUser(c capability, g *Guard, id string) User {
	guard(c, "User")
	return User{PossibleUser: PossibleUser{seal: c, id: id, guard: g}}
}

func newCurrentUser(c capability, g *Guard, id string) CurrentUser {
	guard(c, "CurrentUser")
	return CurrentUser{User: newUser(c, g, id)}
}

// check panics for values built outside this package (e.g. PossibleUser{}).
func (p PossibleUser) check() {
	guard(p.seal, "PossibleUser")
}

// ID returns the user ID.
func (p PossibleUser) ID() string {
	p.check()
	return p.id
}

// String implements [fmt.Stringer].
func (p PossibleUser) String() string { return p.ID() }

/*
ToRealUser checks that the user exists right now.

Returns:
  - User: when the ID is present in the Database
  - error: [Nonexistent] when absent, [DatabaseFault] when the check fails
*/
func (p PossibleUser) ToRealUser(ctx context.Context) (User, error) {
	p.check()
	return p.guard.realUser(ctx, p.id)
}

// Possible downgrades a User. It always succeeds.
func (u User) Possible() PossibleUser {
	u.check()
	return u.PossibleUser
}

// ToRealUser returns u unchanged; it was already checked.
func (u User) ToRealUser(context.Context) (User, error) {
	u.check()
	return u, nil
}

/*
Info loads the user's public profile.

Returns:
  - UserInfo: the profile
  - error: [Nonexistent] if the user was deleted since the check, [DatabaseFault] otherwise
*/
func (u User) Info(ctx context.Context) (UserInfo, error) {
	u.check()

	info, err := u.guard.db.GetUserInfo(ctx, u.id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return UserInfo{}, fail(Nonexistent, "User not found")
		}
		return UserInfo{}, fault("Could not load user info", err)
	}

	return info, nil
}

// AsUser downgrades the current user to a plain [User]. It always succeeds.
func (c CurrentUser) AsUser() User {
	c.check()
	return c.User
}

// Is reports whether p names the same user as the current user.
func (c CurrentUser) Is(p PossibleUser) bool {
	return c.ID() == p.ID()
}

// realUser is the shared existence check behind every upgrade.
func (g *Guard) realUser(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, fail(Nonexistent, "User not found")
	}

	exists, err := g.db.UserExists(ctx, id)
	if err != nil {
		return User{}, fault("Could not check user", err)
	}
	if !exists {
		return User{}, fail(Nonexistent, "User not found")
	}

	return newUser(sealed, g, id), nil
}
