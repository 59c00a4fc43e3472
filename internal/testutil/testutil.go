// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package testutil provides the shared fixture for handler tests.

A [Harness] wires the in-memory store, a real token service, a real bcrypt
hasher and a [safesession.Guard] behind the same Session middleware the server
uses, so handler tests exercise the full authorization path without a database.
*/
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/platform/constants"
	"github.com/taibuivan/wevote/internal/platform/metrics"
	"github.com/taibuivan/wevote/internal/platform/middleware"
	"github.com/taibuivan/wevote/internal/platform/respond"
	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/internal/storage/memory"
)

// Secret signs test tokens. It only has to satisfy the length check.
const Secret = "0123456789abcdef0123456789abcdef"

// Harness is a fully wired session stack over the in-memory store.
type Harness struct {
	Store       *memory.Store
	Signer      *sec.TokenService
	Hasher      *sec.BcryptHasher
	Revocations *memory.Revocations
	Guard       *safesession.Guard
	Metrics     *metrics.Metrics
	Cookies     middleware.CookieOptions
}

// NewHarness builds a [Harness]. Options are passed to [memory.New].
func NewHarness(t *testing.T, opts ...memory.Option) *Harness {
	t.Helper()

	store := memory.New(opts...)
	signer, err := sec.NewTokenService(Secret, "wevote-test", time.Hour)
	require.NoError(t, err)

	hasher := sec.NewBcryptHasher(sec.MinBcryptCost)
	revocations := memory.NewRevocations()

	return &Harness{
		Store:       store,
		Signer:      signer,
		Hasher:      hasher,
		Revocations: revocations,
		Guard: safesession.NewGuard(safesession.Dependencies{
			Database: store,
			Admin:    store,
			Signer:   signer,
			Hasher:   hasher,
			Revoker:  revocations,
		}),
		Metrics: metrics.New(),
	}
}

// Mount serves routes at prefix behind the Session middleware.
func (h *Harness) Mount(prefix string, routes http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Session(h.Guard, h.Cookies))
	router.Mount(prefix, routes)
	return router
}

// SeedUser stores an account whose password is password and returns its ID.
func (h *Harness) SeedUser(t *testing.T, displayName, email, password string, role sec.UserRole) string {
	t.Helper()

	hash, err := h.Hasher.Hash(password)
	require.NoError(t, err)
	return h.Store.SeedUser(displayName, email, hash, role)
}

// Token signs a session token for userID.
func (h *Harness) Token(t *testing.T, userID string) string {
	t.Helper()

	token, err := h.Signer.Sign(userID)
	require.NoError(t, err)
	return token
}

// # Requests

// NewJSONRequest creates a request whose body is body encoded as JSON.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	return request
}

// WithToken attaches token as the session cookie.
func WithToken(request *http.Request, token string) *http.Request {
	request.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: token})
	return request
}

// Do executes request against handler and returns the recorder.
func Do(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// # Responses

// Data decodes the "data" member of a success envelope.
func Data[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), "failed to unmarshal response")
	return envelope.Data
}

// Paged decodes a paginated envelope.
func Paged[T any](t *testing.T, recorder *httptest.ResponseRecorder) (T, int) {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), "failed to unmarshal response")
	return envelope.Data, envelope.Meta.Total
}

// Failure decodes an error envelope.
func Failure(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), "failed to unmarshal error response")
	return envelope
}

// SessionCookie returns the "auth" cookie set by the response, if any.
func SessionCookie(recorder *httptest.ResponseRecorder) (*http.Cookie, bool) {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.AuthCookieName {
			return cookie, true
		}
	}
	return nil, false
}
