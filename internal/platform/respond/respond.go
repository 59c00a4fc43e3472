// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes every JSON body the API returns.
//
// Successes are wrapped as {"data": ...}, paginated lists add a "meta" block,
// and failures are {"error", "code", "details"}. Session failures and
// validation rejections from safesession are mapped to status codes here, so
// handlers never pick a status for an error themselves.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/wevote/internal/platform/apperr"
	"github.com/taibuivan/wevote/internal/platform/ctxkey"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/pagination"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes a 200 OK response with paginated data and a metadata block.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
//
// # Mapping
//   - [*apperr.AppError]: used as is
//   - [*safesession.Fail]: Unauthorized 401, Nonexistent 404, Conflict 409,
//     DatabaseFault 500 (the store cause is logged, never sent)
//   - [safesession.Rejection]: 400 VALIDATION_ERROR
//   - anything else: 500
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = fromSession(err)
	}
	if appError == nil {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", getRequestIDFromContext(request)),
		)
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= 500 {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", getRequestIDFromContext(request)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

// fromSession translates session failures into their HTTP shape.
func fromSession(err error) *apperr.AppError {
	var rejection safesession.Rejection
	if errors.As(err, &rejection) {
		return apperr.ValidationError("Validation failed: " + string(rejection))
	}

	fail := safesession.AsFail(err)
	if fail == nil {
		return nil
	}

	switch fail.Kind {
	case safesession.Unauthorized:
		return apperr.Unauthorized(orDefault(fail.Message, "Unauthorized")).WithCause(fail.Cause)
	case safesession.Nonexistent:
		return apperr.NotFound(orDefault(fail.Message, "Resource not found")).WithCause(fail.Cause)
	case safesession.Conflict:
		return apperr.Conflict(orDefault(fail.Message, "Conflict")).WithCause(fail.Cause)
	default:
		return apperr.Internal(fail)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// getLoggerFromContext extracts the per-request logger.
func getLoggerFromContext(request *http.Request) *slog.Logger {
	if logger, ok := request.Context().Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// getRequestIDFromContext extracts the X-Request-ID for log correlation.
func getRequestIDFromContext(request *http.Request) string {
	if id, ok := request.Context().Value(ctxkey.KeyRequestID).(string); ok {
		return id
	}
	return ""
}
