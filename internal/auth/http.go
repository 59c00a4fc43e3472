// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"github.com/taibuivan/wevote/internal/platform/ctxutil"
	"github.com/taibuivan/wevote/internal/platform/metrics"
	"github.com/taibuivan/wevote/internal/platform/middleware"
	requestutil "github.com/taibuivan/wevote/internal/platform/request"
	"github.com/taibuivan/wevote/internal/platform/respond"
	"github.com/taibuivan/wevote/internal/platform/validate"
	"github.com/taibuivan/wevote/internal/safesession"
)

// Routes returns a [chi.Router] configured with the authentication routes.
//
// # Endpoints
//   - POST /sign-up  : Creates an account and signs it in.
//   - POST /sign-in  : Exchanges credentials for a session cookie.
//   - POST /sign-out : Revokes the session token and clears the cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/sign-up", handler.signUp)
	router.Post("/sign-in", handler.signIn)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/sign-out", handler.signOut)
	})

	return router
}

// # Request Payloads

type signUpRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is returned after a token has been issued. The token itself
// only travels in the HttpOnly cookie.
type sessionResponse struct {
	User      safesession.UserInfo `json:"user"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

/*
POST /api/v1/auth/sign-up.

Description: Validates the input, registers the account and signs it in.

Request:
  - Body: signUpRequest (displayName, email, password)

Response:
  - 201: sessionResponse: The new profile, with the "auth" cookie set
  - 400: Validation: Malformed or disallowed email, short password, bad name
  - 401: ErrUnauthorized: The caller is already signed in
  - 409: ErrConflict: The email is already registered
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	requester, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input signUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	displayName, nameErr := safesession.ValidateDisplayNameWith(input.DisplayName, handler.options.Screen)
	email, emailErr := handler.options.Emails.Validate(input.Email)
	password, passwordErr := safesession.ValidatePassword(input.Password)

	v := &validate.Validator{}
	v.Check(FieldDisplayName, nameErr).
		Check(FieldEmail, emailErr).
		Check(FieldPassword, passwordErr)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	if _, err := requester.CreateNewUser(ctx, displayName, email, password); err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.metrics.UsersCreated.Inc()

	response, err := handler.issue(writer, request, requester, email, password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, response)
}

/*
POST /api/v1/auth/sign-in.

Description: Verifies the credentials and sets the session cookie. An unknown
email and a wrong password produce the same response.

Request:
  - Body: signInRequest (email, password)

Response:
  - 200: sessionResponse: The signed-in profile
  - 400: Validation: Malformed email or short password
  - 401: ErrUnauthorized: Invalid email or password
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	requester, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email, emailErr := handler.options.Emails.Validate(input.Email)
	password, passwordErr := safesession.ValidatePassword(input.Password)

	v := &validate.Validator{}
	v.Check(FieldEmail, emailErr).Check(FieldPassword, passwordErr)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.issue(writer, request, requester, email, password)
	if err != nil {
		handler.metrics.SignIns.WithLabelValues(metrics.OutcomeFailure).Inc()
		respond.Error(writer, request, err)
		return
	}
	handler.metrics.SignIns.WithLabelValues(metrics.OutcomeSuccess).Inc()

	respond.OK(writer, response)
}

/*
POST /api/v1/auth/sign-out.

Description: Revokes the current token and clears the cookie.

Response:
  - 204: No Content: Signed out
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := session.SignOut(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.metrics.SessionsRevoked.Inc()

	middleware.ClearSessionCookie(writer, handler.options.Cookies)
	respond.NoContent(writer)
}

// issue constructs a token for the credentials, resolves it back into a
// session and writes the cookie.
func (handler *Handler) issue(writer http.ResponseWriter, request *http.Request, requester safesession.Requester, email safesession.ValidEmail, password safesession.ValidPassword) (sessionResponse, error) {
	ctx := request.Context()

	token, err := requester.ConstructJWT(ctx, email, password)
	if err != nil {
		return sessionResponse{}, err
	}

	session, err := handler.sessions.FromJWT(ctx, token)
	if err != nil {
		return sessionResponse{}, err
	}

	info, err := session.CurrentUser().AsUser().Info(ctx)
	if err != nil {
		return sessionResponse{}, err
	}

	middleware.SetSessionCookie(writer, token, session.ExpiresAt(), handler.options.Cookies)

	ctxutil.GetLogger(ctx).InfoContext(ctx, "session_issued",
		slog.String("user_id", info.ID),
		slog.Time("expires_at", session.ExpiresAt()),
		slog.String("device", describeDevice(request.UserAgent())),
	)

	return sessionResponse{User: info, ExpiresAt: session.ExpiresAt()}, nil
}

// describeDevice renders a User-Agent header as "Browser on OS" for the
// session log.
func describeDevice(header string) string {
	if header == "" {
		return "Unknown Device"
	}

	agent := useragent.New(header)

	browser, _ := agent.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	platform := agent.OS()
	if platform == "" {
		platform = agent.Platform()
	}
	if platform == "" {
		platform = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + platform)
}
