// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type that reaches the HTTP boundary.

Session failures and validation rejections are produced by the safesession
package; respond translates them into an [AppError]. Transport-level failures
that never touch a session (missing authentication, rate limiting, panics)
are built here directly.

The Cause of an [AppError] is logged server-side and never serialized.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes. Clients switch on these, never on messages.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is an HTTP-shaped failure.
type AppError struct {
	// Code is one of the Code constants.
	Code string `json:"code"`

	// Message is safe to show to the client.
	Message string `json:"error"`

	// HTTPStatus is the response status.
	HTTPStatus int `json:"-"`

	// Cause is logged, never sent.
	Cause error `json:"-"`

	// Details lists per-field problems of a VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError is one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error for the server log.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Client Errors (4xx)

// ValidationError is a 400 carrying per-field details.
func ValidationError(message string, details ...FieldError) *AppError {
	err := newError(http.StatusBadRequest, CodeValidation, message)
	err.Details = details
	return err
}

// Unauthorized is a 401: the request has no usable session.
func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden is a 403: the session is valid but lacks the required role.
func Forbidden(message string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

// NotFound is a 404.
func NotFound(message string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, message)
}

// Conflict is a 409: the request is well formed but clashes with current state.
func Conflict(message string) *AppError {
	return newError(http.StatusConflict, CodeConflict, message)
}

// RateLimited is a 429 telling the client how long to back off.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors (5xx)

// Internal is a 500 with a fixed message. The cause is only logged.
func Internal(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred").WithCause(cause)
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}
