// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey declares the context keys shared by middleware, handlers and
// the response writer. Reads go through ctxutil; only respond reads the keys
// directly, to avoid an import cycle.
package ctxkey

// key is unexported so no other package can mint a colliding key.
type key int

const (
	// KeyRequestID holds the X-Request-ID string.
	KeyRequestID key = iota

	// KeySession holds the caller's safesession.Requester.
	KeySession

	// KeyAdmin holds the *safesession.AdminSession set by RequireAdmin.
	KeyAdmin

	// KeyLogger holds the request-scoped *slog.Logger.
	KeyLogger
)
