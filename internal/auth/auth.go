// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for account registration and
session tokens.

It is a thin mediation layer over [safesession]: raw input is validated into
the Valid* types, the caller's [safesession.Requester] performs the operation,
and the resulting token is delivered as the "auth" cookie.

# Security

The handler never sees a password hash or a user row. A session token is only
obtainable through [safesession.UnauthenticatedSession.ConstructJWT].
*/
package auth

import (
	"github.com/taibuivan/wevote/internal/platform/metrics"
	"github.com/taibuivan/wevote/internal/platform/middleware"
	"github.com/taibuivan/wevote/internal/safesession"
)

// Request field names, shared by validation errors and JSON payloads.
const (
	FieldDisplayName = "displayName"
	FieldEmail       = "email"
	FieldPassword    = "password"
)

// Options configure a [Handler].
type Options struct {
	// Emails is the sign-up domain allow-list.
	Emails safesession.EmailPolicy

	// Screen filters display names. Defaults to [safesession.AcceptAll].
	Screen safesession.ProfanityScreen

	// Cookies controls the session cookie attributes.
	Cookies middleware.CookieOptions
}

// Handler implements the authentication endpoints.
type Handler struct {
	sessions middleware.SessionSource
	metrics  *metrics.Metrics
	options  Options
}

// NewHandler constructs an auth [Handler]. Sessions resolves freshly issued
// tokens so the response can report the signed-in user and expiry.
func NewHandler(sessions middleware.SessionSource, metrics *metrics.Metrics, options Options) *Handler {
	if options.Screen == nil {
		options.Screen = safesession.AcceptAll
	}
	return &Handler{sessions: sessions, metrics: metrics, options: options}
}
