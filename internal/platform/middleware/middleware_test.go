// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/platform/constants"
	"github.com/taibuivan/wevote/internal/platform/ctxutil"
	"github.com/taibuivan/wevote/internal/platform/middleware"
	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/internal/storage/memory"
)

type fixture struct {
	store  *memory.Store
	signer *sec.TokenService
	guard  *safesession.Guard
}

func newFixture(t *testing.T, revoker safesession.Revoker) *fixture {
	t.Helper()

	store := memory.New()
	signer, err := sec.NewTokenService("0123456789abcdef0123456789abcdef", "wevote", time.Hour)
	require.NoError(t, err)

	return &fixture{
		store:  store,
		signer: signer,
		guard: safesession.NewGuard(safesession.Dependencies{
			Database: store,
			Admin:    store,
			Signer:   signer,
			Hasher:   sec.NewBcryptHasher(sec.MinBcryptCost),
			Revoker:  revoker,
		}),
	}
}

func (f *fixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.signer.Sign(userID)
	require.NoError(t, err)
	return token
}

// whoami reports the session kind the handler saw.
var whoami = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if session, ok := ctxutil.GetAuthSession(request.Context()); ok {
		_, _ = writer.Write([]byte(session.CurrentUser().ID()))
		return
	}
	if ctxutil.GetSession(request.Context()) != nil {
		_, _ = writer.Write([]byte("anonymous"))
		return
	}
	_, _ = writer.Write([]byte("none"))
})

type brokenRevoker struct{}

func (brokenRevoker) Revoke(context.Context, string, time.Time) error { return errors.New("down") }
func (brokenRevoker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("down")
}

/*
TestSession_Resolution covers every way a request can present (or not) a token.
*/
func TestSession_Resolution(t *testing.T) {
	f := newFixture(t, nil)
	userID := f.store.SeedUser("Ann", "ann@uwo.ca", "h", sec.RoleMember)
	token := f.token(t, userID)

	tests := []struct {
		name          string
		prepare       func(request *http.Request)
		wantBody      string
		wantCleared   bool
		wantNoCookies bool
	}{
		{"no_token", func(*http.Request) {}, "anonymous", false, true},
		{"valid_cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: token})
		}, userID, false, true},
		{"valid_bearer", func(r *http.Request) {
			r.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
		}, userID, false, true},
		{"garbage_cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: "garbage"})
		}, "anonymous", true, false},
		{"garbage_bearer", func(r *http.Request) {
			r.Header.Set(constants.HeaderAuthorization, "Bearer garbage")
		}, "anonymous", false, true},
		{"deleted_user_cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: f.token(t, "01928f6e-7b3a-7c4d-8e5f-0123456789ab")})
		}, "anonymous", true, false},
	}

	handler := middleware.Session(f.guard, middleware.CookieOptions{Secure: true})(whoami)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(request)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantBody, recorder.Body.String())
			cookies := recorder.Result().Cookies()
			if tt.wantNoCookies {
				assert.Empty(t, cookies)
			}
			if tt.wantCleared {
				require.Len(t, cookies, 1)
				assert.Equal(t, constants.AuthCookieName, cookies[0].Name)
				assert.Equal(t, -1, cookies[0].MaxAge)
			}
		})
	}
}

/*
TestSetSessionCookie verifies the attributes of an issued session cookie.
*/
func TestSetSessionCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	lifetime := 14 * 24 * time.Hour

	middleware.SetSessionCookie(recorder, "token", time.Now().Add(lifetime), middleware.CookieOptions{Secure: true})

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	assert.Equal(t, constants.AuthCookieName, cookie.Name)
	assert.Equal(t, "token", cookie.Value)
	assert.Equal(t, constants.AuthCookiePath, cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.InDelta(t, lifetime.Seconds(), float64(cookie.MaxAge), 5)
}

/*
TestSession_StoreFaultKeepsCookie verifies that an unreachable revocation list
degrades to anonymous without logging the user out.
*/
func TestSession_StoreFaultKeepsCookie(t *testing.T) {
	f := newFixture(t, brokenRevoker{})
	userID := f.store.SeedUser("Ann", "ann@uwo.ca", "h", sec.RoleMember)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: f.token(t, userID)})
	recorder := httptest.NewRecorder()

	middleware.Session(f.guard, middleware.CookieOptions{})(whoami).ServeHTTP(recorder, request)

	assert.Equal(t, "anonymous", recorder.Body.String())
	assert.Empty(t, recorder.Result().Cookies())
}

/*
TestRequireAuthAndAdmin checks the 401 and 403 gates.
*/
func TestRequireAuthAndAdmin(t *testing.T) {
	f := newFixture(t, nil)
	member := f.store.SeedUser("Ann", "ann@uwo.ca", "h", sec.RoleMember)
	admin := f.store.SeedUser("Root", "root@uwo.ca", "h", sec.RoleAdmin)

	adminOnly := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, ok := ctxutil.GetAdmin(request.Context())
		assert.True(t, ok)
		writer.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		userID   string
		wrap     func(http.Handler) http.Handler
		next     http.Handler
		wantCode int
	}{
		{"auth_anonymous", "", middleware.RequireAuth, whoami, http.StatusUnauthorized},
		{"auth_member", member, middleware.RequireAuth, whoami, http.StatusOK},
		{"admin_anonymous", "", middleware.RequireAdmin, adminOnly, http.StatusUnauthorized},
		{"admin_member", member, middleware.RequireAdmin, adminOnly, http.StatusForbidden},
		{"admin_admin", admin, middleware.RequireAdmin, adminOnly, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				request.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: f.token(t, tt.userID)})
			}
			recorder := httptest.NewRecorder()

			handler := middleware.Session(f.guard, middleware.CookieOptions{})(tt.wrap(tt.next))
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}

type corsConfig struct {
	development bool
	origins     []string
}

func (c corsConfig) IsDevelopment() bool   { return c.development }
func (c corsConfig) CORSOrigins() []string { return c.origins }

/*
TestCORS_AllowList checks that production only echoes listed origins.
*/
func TestCORS_AllowList(t *testing.T) {
	tests := []struct {
		name      string
		config    corsConfig
		origin    string
		wantAllow string
	}{
		{"listed", corsConfig{origins: []string{"https://wevote.app"}}, "https://wevote.app", "https://wevote.app"},
		{"unlisted", corsConfig{origins: []string{"https://wevote.app"}}, "https://evil.example", ""},
		{"development", corsConfig{development: true}, "http://localhost:3000", "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.config)(whoami).ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantAllow, recorder.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

/*
TestRateLimit_Burst verifies that the bucket rejects requests past the burst.
*/
func TestRateLimit_Burst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(whoami)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, request)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.NotEmpty(t, last.Header().Get(constants.HeaderRetryAfter))
	assert.Contains(t, last.Body.String(), `"code":"RATE_LIMITED"`)
}

/*
TestRequestID verifies that well-formed client IDs are kept and others replaced.
*/
func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantKept bool
	}{
		{name: "Missing", incoming: "", wantKept: false},
		{name: "WellFormed", incoming: "edge-7f3a.42_b", wantKept: true},
		{name: "InjectedNewline", incoming: "abc\ninjected=1", wantKept: false},
		{name: "TooLong", incoming: strings.Repeat("a", 65), wantKept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				seen = ctxutil.GetRequestID(request.Context())
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				request.Header.Set(constants.HeaderXRequestID, tt.incoming)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
			if tt.wantKept {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}

/*
TestPanicRecovery verifies that a panicking handler yields a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, recorder.Body.String(), "boom")
}
