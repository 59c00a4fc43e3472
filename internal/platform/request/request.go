// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wevote/internal/platform/apperr"
	"github.com/taibuivan/wevote/internal/platform/ctxutil"
	"github.com/taibuivan/wevote/internal/platform/validate"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/uuid"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a named URL parameter as a positive integer ID.

Returns:
  - int64: the ID
  - error: apperr.ValidationError when the parameter is not a positive integer
*/
func Int64Param(request *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.FieldError(name, "Must be a positive integer")
	}
	return id, nil
}

/*
UserIDParam retrieves a named URL parameter holding an account ID. A value
that is not a UUID cannot name an account, so it is reported as 404 without a
storage lookup.
*/
func UserIDParam(request *http.Request, name string) (string, error) {
	id := chi.URLParam(request, name)
	if !uuid.Valid(id) {
		return "", apperr.NotFound("User not found")
	}
	return id, nil
}

/*
Session returns the caller's session, anonymous or authenticated.

The session middleware always sets one; a missing session means the route was
mounted without it, which is a wiring bug reported as 500.
*/
func Session(request *http.Request) (safesession.Requester, error) {
	session := ctxutil.GetSession(request.Context())
	if session == nil {
		return nil, apperr.Internal(nil)
	}
	return session, nil
}

/*
RequiredSession ensures the request is authenticated and returns its session.

Returns:
  - *safesession.Session: The authenticated session
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredSession(request *http.Request) (*safesession.Session, error) {
	session, ok := ctxutil.GetAuthSession(request.Context())
	if !ok {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return session, nil
}

/*
RequiredAdmin returns the admin session stored by the admin middleware.

Returns:
  - *safesession.AdminSession: The elevated session
  - error: apperr.Forbidden if the route was reached without elevation
*/
func RequiredAdmin(request *http.Request) (*safesession.AdminSession, error) {
	admin, ok := ctxutil.GetAdmin(request.Context())
	if !ok {
		return nil, apperr.Forbidden("Insufficient permissions")
	}
	return admin, nil
}
