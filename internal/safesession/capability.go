// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package safesession is the authorization core of WeVote.

Every read or write of user data goes through typed, pre-checked objects that
describe how much is known about the caller:

  - [UnauthenticatedSession]: nobody in particular.
  - [PossibleUser]: a string claimed to be a user ID.
  - [User]: an ID confirmed to exist at check time.
  - [CurrentUser]: the identity bound to the authenticated caller.
  - [Session]: an authenticated caller, minted only from a verified token.
  - [AdminSession]: a session whose user was confirmed to hold the admin role.

Objects of these types can only be produced by this package. Narrowing to a
weaker capability always succeeds; widening always requires a fallible check.
*/
package safesession

// capability is the unforgeable marker required by every guarded constructor.
//
// # Enforcement
//
// The single valid value is [sealed]. It holds a pointer to a package-private
// allocation, so no other capability value (including the zero value) ever
// compares equal to it.
type capability struct {
	seal *struct{ _ byte }
}

var sealed = capability{seal: &struct{ _ byte }{}}

// guard panics when c is not the process-wide capability.
//
// A mismatch means code tried to fabricate a session object without going
// through this package. That is a programming error, not a recoverable outcome.
func guard(c capability, what string) {
	if c != sealed {
		panic("safesession: attempt to construct " + what + " without the session capability")
	}
}
