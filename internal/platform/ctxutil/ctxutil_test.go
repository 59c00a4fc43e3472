// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/platform/ctxutil"
	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/internal/storage/memory"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	fallback := slog.New(slog.DiscardHandler)

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))
	assert.Same(t, fallback, ctxutil.LoggerOr(ctx, fallback))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
	assert.Same(t, logger, ctxutil.LoggerOr(ctx, fallback))
}

/*
TestContext_Session verifies that a session can be stored in context and narrowed.
*/
func TestContext_Session(t *testing.T) {
	ctx := context.Background()

	signer, err := sec.NewTokenService("0123456789abcdef0123456789abcdef", "wevote", time.Hour)
	require.NoError(t, err)
	guard := safesession.NewGuard(safesession.Dependencies{
		Database: memory.New(),
		Signer:   signer,
		Hasher:   sec.NewBcryptHasher(sec.MinBcryptCost),
	})

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetSession(ctx))
	_, ok := ctxutil.GetAuthSession(ctx)
	assert.False(t, ok)

	// 2. Inject an anonymous session and retrieve it
	anonymous := guard.Anonymous()
	ctx = ctxutil.WithSession(ctx, anonymous)

	assert.Same(t, anonymous, ctxutil.GetSession(ctx))
	_, ok = ctxutil.GetAuthSession(ctx)
	assert.False(t, ok)
}
