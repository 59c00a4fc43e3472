// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"net/http"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/auth"
	"github.com/taibuivan/wevote/internal/platform/metrics"
	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/internal/testutil"
)

type sessionBody struct {
	User      safesession.UserInfo `json:"user"`
	ExpiresAt string               `json:"expiresAt"`
}

func newServer(h *testutil.Harness) http.Handler {
	handler := auth.NewHandler(h.Guard, h.Metrics, auth.Options{
		Emails: safesession.EmailPolicy{Domains: []string{"uwo.ca"}},
	})
	return h.Mount("/auth", handler.Routes())
}

/*
TestSignUp verifies registration, validation and the duplicate-email conflict.
*/
func TestSignUp(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)

	tests := []struct {
		name        string
		body        map[string]string
		wantCode    int
		wantField   string
		wantMessage string
	}{
		{
			name:     "Success",
			body:     map[string]string{"displayName": "  Alice ", "email": "alice@uwo.ca", "password": "hunter22"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "Fails_DuplicateEmail",
			body:     map[string]string{"displayName": "Alice Again", "email": "alice@uwo.ca", "password": "hunter22"},
			wantCode: http.StatusConflict,
		},
		{
			name:        "Fails_DisallowedDomain",
			body:        map[string]string{"displayName": "Bob", "email": "bob@gmail.com", "password": "hunter22"},
			wantCode:    http.StatusBadRequest,
			wantField:   auth.FieldEmail,
			wantMessage: "disallowed",
		},
		{
			name:        "Fails_Malformed",
			body:        map[string]string{"displayName": "Bob", "email": "bob", "password": "hunter22"},
			wantCode:    http.StatusBadRequest,
			wantField:   auth.FieldEmail,
			wantMessage: "malformed",
		},
		{
			name:        "Fails_ShortPassword",
			body:        map[string]string{"displayName": "Bob", "email": "bob@uwo.ca", "password": "abc"},
			wantCode:    http.StatusBadRequest,
			wantField:   auth.FieldPassword,
			wantMessage: "too short",
		},
		{
			name:        "Fails_BlankName",
			body:        map[string]string{"displayName": "   ", "email": "bob@uwo.ca", "password": "abcd"},
			wantCode:    http.StatusBadRequest,
			wantField:   auth.FieldDisplayName,
			wantMessage: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-up", tt.body))
			require.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())

			if tt.wantCode == http.StatusCreated {
				body := testutil.Data[sessionBody](t, recorder)
				assert.Equal(t, "Alice", body.User.DisplayName)
				assert.Equal(t, safesession.DefaultBio, body.User.Bio)

				cookie, ok := testutil.SessionCookie(recorder)
				require.True(t, ok)
				assert.True(t, cookie.HttpOnly)
				assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
				assert.NotEmpty(t, cookie.Value)
				return
			}

			if tt.wantField != "" {
				failure := testutil.Failure(t, recorder)
				require.Len(t, failure.Details, 1)
				assert.Equal(t, tt.wantField, failure.Details[0].Field)
				assert.Equal(t, tt.wantMessage, failure.Details[0].Message)
			}
		})
	}

	assert.Equal(t, 1.0, promtest.ToFloat64(h.Metrics.UsersCreated))
}

/*
TestSignUp_WhileSignedIn verifies that an authenticated caller cannot register.
*/
func TestSignUp_WhileSignedIn(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)
	userID := h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember)

	request := testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-up",
		map[string]string{"displayName": "Bob", "email": "bob@uwo.ca", "password": "hunter22"})
	recorder := testutil.Do(server, testutil.WithToken(request, h.Token(t, userID)))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestSignIn verifies that wrong passwords and unknown emails fail identically.
*/
func TestSignIn(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)
	userID := h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember)

	t.Run("Success", func(t *testing.T) {
		recorder := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-in",
			map[string]string{"email": "alice@uwo.ca", "password": "hunter22"}))
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

		body := testutil.Data[sessionBody](t, recorder)
		assert.Equal(t, userID, body.User.ID)

		cookie, ok := testutil.SessionCookie(recorder)
		require.True(t, ok)

		claims, err := h.Signer.Verify(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	wrongPassword := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-in",
		map[string]string{"email": "alice@uwo.ca", "password": "wrong-password"}))
	unknownEmail := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-in",
		map[string]string{"email": "nobody@uwo.ca", "password": "hunter22"}))

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, testutil.Failure(t, wrongPassword).Error, testutil.Failure(t, unknownEmail).Error)

	_, ok := testutil.SessionCookie(wrongPassword)
	assert.False(t, ok)

	assert.Equal(t, 1.0, promtest.ToFloat64(h.Metrics.SignIns.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 2.0, promtest.ToFloat64(h.Metrics.SignIns.WithLabelValues(metrics.OutcomeFailure)))
}

/*
TestSignOut verifies that a signed-out token no longer authenticates.
*/
func TestSignOut(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)
	userID := h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember)
	token := h.Token(t, userID)

	anonymous := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-out", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	recorder := testutil.Do(server, testutil.WithToken(testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-out", nil), token))
	require.Equal(t, http.StatusNoContent, recorder.Code)

	cookie, ok := testutil.SessionCookie(recorder)
	require.True(t, ok)
	assert.Negative(t, cookie.MaxAge)

	replay := testutil.Do(server, testutil.WithToken(testutil.NewJSONRequest(t, http.MethodPost, "/auth/sign-out", nil), token))
	assert.Equal(t, http.StatusUnauthorized, replay.Code)
}
