// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package safesession

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
)

// # Session Factory

// Dependencies groups the collaborators of a [Guard].
type Dependencies struct {
	// Database is required.
	Database Database
	// Admin backs [AdminSession]. When nil, no session can be elevated.
	Admin AdminDatabase
	// Signer is required.
	Signer TokenSigner
	// Hasher is required.
	Hasher PasswordHasher
	// Revoker is optional. When nil, signed-out tokens stay valid until expiry.
	Revoker Revoker
	// Logger defaults to [slog.Default].
	Logger *slog.Logger
}

// Guard is the process-level entry point that mints sessions.
//
// It owns no connections. The Database and the other collaborators are
// injected and shared read-only by every session it creates.
type Guard struct {
	db      Database
	admin   AdminDatabase
	signer  TokenSigner
	hasher  PasswordHasher
	revoker Revoker
	logger  *slog.Logger

	decoyOnce sync.Once
	decoy     string
}

// NewGuard constructs a [Guard]. It panics when a required dependency is missing,
// which can only happen during startup wiring.
func NewGuard(deps Dependencies) *Guard {
	if deps.Database == nil || deps.Signer == nil || deps.Hasher == nil {
		panic("safesession: Database, Signer and Hasher are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Guard{
		db:      deps.Database,
		admin:   deps.Admin,
		signer:  deps.Signer,
		hasher:  deps.Hasher,
		revoker: deps.Revoker,
		logger:  logger,
	}
}

// Anonymous returns a session for a caller with no credentials.
func (g *Guard) Anonymous() *UnauthenticatedSession {
	return newUnauthenticatedSession(sealed, g)
}

/*
FromJWT resolves a session token into an authenticated [Session].

Description: The token must carry a valid signature, an unexpired lifetime and
a user ID. A signed-out token (on the revocation list) is refused, and the user
must still exist: a valid-looking token for a deleted user yields no session.

Returns:
  - *Session: the authenticated session
  - error: [Unauthorized] for any token or identity problem, [DatabaseFault]
    when the revocation list or the user check cannot be read
*/
func (g *Guard) FromJWT(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, fail(Unauthorized, "Missing session token")
	}

	claims, err := g.signer.Verify(token)
	if err != nil {
		return nil, &Fail{Kind: Unauthorized, Message: "Invalid or expired session token", Cause: err}
	}
	if claims.UserID == "" {
		return nil, fail(Unauthorized, "Malformed session token")
	}

	if g.revoker != nil && claims.TokenID != "" {
		revoked, err := g.revoker.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fault("Could not check session revocation", err)
		}
		if revoked {
			return nil, fail(Unauthorized, "Session has been signed out")
		}
	}

	exists, err := g.db.UserExists(ctx, claims.UserID)
	if err != nil {
		return nil, fault("Could not check session user", err)
	}
	if !exists {
		return nil, fail(Unauthorized, "Session user no longer exists")
	}

	return newSession(sealed, g, claims), nil
}

// decoyHash returns a hash compared against when an email is unknown, so a
// failed sign-in costs the same time whether or not the account exists.
func (g *Guard) decoyHash() string {
	g.decoyOnce.Do(func() {
		buffer := make([]byte, 16)
		_, _ = rand.Read(buffer)

		hash, err := g.hasher.Hash(hex.EncodeToString(buffer))
		if err != nil {
			g.logger.Warn("decoy_hash_failed", slog.Any("error", err))
			return
		}
		g.decoy = hash
	})
	return g.decoy
}

// translate maps a store error onto the failure taxonomy.
func translate(err error, notFound, conflict, fallback string) *Fail {
	if f := AsFail(err); f != nil {
		return f
	}
	if errors.Is(err, ErrNotFound) {
		return &Fail{Kind: Nonexistent, Message: notFound, Cause: err}
	}
	if errors.Is(err, ErrConflict) {
		return &Fail{Kind: Conflict, Message: conflict, Cause: err}
	}
	return fault(fallback, err)
}
