// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/wevote/internal/platform/ctxkey"
	"github.com/taibuivan/wevote/internal/safesession"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// LoggerOr returns the request logger, or fallback when none was installed.
func LoggerOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// # Identity & Access

// WithSession returns a new context with the caller's session attached.
func WithSession(ctx context.Context, session safesession.Requester) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, session)
}

// GetSession retrieves the caller's session. Returns nil when the session
// middleware did not run.
func GetSession(ctx context.Context) safesession.Requester {
	session, ok := ctx.Value(ctxkey.KeySession).(safesession.Requester)
	if !ok {
		return nil
	}
	return session
}

// GetAuthSession retrieves the authenticated session, if the caller has one.
func GetAuthSession(ctx context.Context) (*safesession.Session, bool) {
	session := GetSession(ctx)
	if session == nil {
		return nil, false
	}
	return session.Authenticated()
}

// WithAdmin returns a new context with the elevated admin session attached.
func WithAdmin(ctx context.Context, admin *safesession.AdminSession) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAdmin, admin)
}

// GetAdmin retrieves the admin session stored by the admin middleware.
func GetAdmin(ctx context.Context) (*safesession.AdminSession, bool) {
	admin, ok := ctx.Value(ctxkey.KeyAdmin).(*safesession.AdminSession)
	return admin, ok && admin != nil
}
