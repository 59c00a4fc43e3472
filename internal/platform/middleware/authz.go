// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/wevote/internal/platform/apperr"
	"github.com/taibuivan/wevote/internal/platform/constants"
	"github.com/taibuivan/wevote/internal/platform/ctxutil"
	"github.com/taibuivan/wevote/internal/platform/respond"
	"github.com/taibuivan/wevote/internal/safesession"
)

// SessionSource defines what the session loader needs from the guard.
//
// Defining SessionSource here decouples the middleware from the concrete
// [*safesession.Guard], so tests can substitute a stub.
type SessionSource interface {
	Anonymous() *safesession.UnauthenticatedSession
	FromJWT(ctx context.Context, token string) (*safesession.Session, error)
}

// CookieOptions control how the session cookie is written and cleared.
type CookieOptions struct {
	Secure bool
}

// Session resolves the caller's session and stores it in the request context.
//
// # Flow
//  1. Read the token from the "auth" cookie, falling back to 'Authorization: Bearer <token>'.
//  2. No token: the request proceeds as anonymous.
//  3. Token rejected ([safesession.Unauthorized] or [safesession.Nonexistent]):
//     the cookie is cleared and the request proceeds as anonymous.
//  4. Store failure ([safesession.DatabaseFault]): logged, the request proceeds
//     as anonymous and the cookie is kept, since the token may still be good.
//
// Every request therefore carries a [safesession.Requester]; handlers never
// see a token.
func Session(source SessionSource, cookies CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// ── 1. Token Extraction ───────────────────────────────────────────
			token, fromCookie := sessionToken(request)
			if token == "" {
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithSession(ctx, source.Anonymous())))
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			session, err := source.FromJWT(ctx, token)
			if err != nil {
				switch safesession.KindOf(err) {
				case safesession.DatabaseFault:
					ctxutil.GetLogger(ctx).WarnContext(ctx, "session_lookup_failed", slog.Any("error", err))
				default:
					if fromCookie {
						ClearSessionCookie(writer, cookies)
					}
				}
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithSession(ctx, source.Anonymous())))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			if recorder, ok := writer.(userRecorder); ok {
				recorder.RecordUser(session.CurrentUser().ID())
			}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithSession(ctx, session)))
		})
	}
}

// sessionToken returns the presented token and whether it came from the cookie.
func sessionToken(request *http.Request) (string, bool) {
	if cookie, err := request.Cookie(constants.AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	header := request.Header.Get(constants.HeaderAuthorization)
	if len(header) > len(constants.AuthHeaderPrefix) && strings.EqualFold(header[:len(constants.AuthHeaderPrefix)], constants.AuthHeaderPrefix) {
		return strings.TrimSpace(header[len(constants.AuthHeaderPrefix):]), false
	}
	return "", false
}

// SetSessionCookie writes the session token as an HttpOnly cookie.
// Max-Age mirrors Expires.
func SetSessionCookie(writer http.ResponseWriter, token string, expires time.Time, cookies CookieOptions) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    token,
		Path:     constants.AuthCookiePath,
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		Secure:   cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie tells the client to drop the session cookie.
func ClearSessionCookie(writer http.ResponseWriter, cookies CookieOptions) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    "",
		Path:     constants.AuthCookiePath,
		MaxAge:   -1,
		Secure:   cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Session].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, ok := ctxutil.GetAuthSession(request.Context()); !ok {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin elevates the session and blocks callers who are not admins.
//
// # Flow
//  1. Check that the request is authenticated (401 otherwise).
//  2. Re-read the user's role from the store via [safesession.Session.Admin]
//     so a demotion takes effect immediately (403 otherwise).
//  3. Store the [*safesession.AdminSession] in the context for the handlers.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		session, ok := ctxutil.GetAuthSession(ctx)
		if !ok {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		admin, err := session.Admin(ctx)
		if err != nil {
			if safesession.IsFail(err, safesession.Unauthorized) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}
			respond.Error(writer, request, err)
			return
		}

		next.ServeHTTP(writer, request.WithContext(ctxutil.WithAdmin(ctx, admin)))
	})
}
