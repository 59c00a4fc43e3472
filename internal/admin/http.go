// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin provides the HTTP delivery layer for moderation.

# Security

Every route sits behind [middleware.RequireAdmin], which elevates the caller's
session to a [safesession.AdminSession] by reading their role from the store.
Handlers only ever act through that elevated session.
*/
package admin

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wevote/internal/platform/middleware"
	requestutil "github.com/taibuivan/wevote/internal/platform/request"
	"github.com/taibuivan/wevote/internal/platform/respond"
	"github.com/taibuivan/wevote/internal/platform/validate"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/pagination"
)

// Handler implements the moderation endpoints.
type Handler struct {
	now func() time.Time
}

// NewHandler constructs an admin [Handler]. now stamps suggestion approvals;
// nil means [time.Now].
func NewHandler(now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{now: now}
}

// Routes returns a [chi.Router] configured with the moderation endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAdmin)

	// Polls
	router.Get("/polls", handler.listPolls)
	router.Post("/polls", handler.createPoll)
	router.Get("/polls/{id}", handler.getPoll)
	router.Put("/polls/{id}", handler.updatePoll)
	router.Delete("/polls/{id}", handler.deletePoll)

	// Users
	router.Get("/users", handler.listUsers)
	router.Delete("/users/{id}", handler.deleteUser)

	// Suggestions
	router.Get("/suggestions", handler.listSuggestions)
	router.Get("/suggestions/{id}", handler.getSuggestion)
	router.Post("/suggestions/{id}/approve", handler.approveSuggestion)
	router.Post("/suggestions/{id}/dismiss", handler.dismissSuggestion)
	router.Delete("/suggestions/{id}", handler.deleteSuggestion)

	// Comments
	router.Get("/comments", handler.listComments)
	router.Delete("/comments/{id}", handler.deleteComment)
	router.Delete("/replies/{id}", handler.deleteReply)

	return router
}

func pageOf(params pagination.Params) safesession.Page {
	return safesession.Page{Limit: params.Limit, Offset: params.Offset()}
}

// # Polls

/*
GET /api/v1/admin/polls.

Description: Lists every poll newest first with unredacted results.

Request:
  - page, limit: pagination query parameters

Response:
  - 200: []PollInfo with pagination meta
  - 403: ErrForbidden: Administrator access required
*/
func (handler *Handler) listPolls(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	polls, total, err := admin.ListPolls(request.Context(), pageOf(params))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, polls, params.Meta(total))
}

/*
GET /api/v1/admin/polls/{id}.

Response:
  - 200: PollInfo
  - 404: ErrNotFound: Poll not found
*/
func (handler *Handler) getPoll(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pollID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	poll, err := admin.GetPoll(request.Context(), pollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, poll)
}

// pollRequest is the editable shape of a poll.
type pollRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OptionA     string    `json:"optionA"`
	OptionB     string    `json:"optionB"`
	ClosesAt    time.Time `json:"closesAt"`
	Closed      bool      `json:"closed"`
	SuggestedBy *string   `json:"suggestedBy"`
}

func (input pollRequest) validate() error {
	v := &validate.Validator{}
	v.Required("title", input.Title).
		MaxLen("title", input.Title, safesession.MaxContentLength).
		MaxLen("description", input.Description, safesession.MaxContentLength).
		Required("optionA", input.OptionA).
		Required("optionB", input.OptionB).
		Custom("closesAt", input.ClosesAt.IsZero(), "This field is required")

	if input.SuggestedBy != nil {
		v.UUID("suggestedBy", *input.SuggestedBy)
	}
	return v.Err()
}

func (input pollRequest) toInput() safesession.PollInput {
	return safesession.PollInput{
		Title:       input.Title,
		Description: input.Description,
		Options:     safesession.Options{A: input.OptionA, B: input.OptionB},
		ClosesAt:    input.ClosesAt,
		Closed:      input.Closed,
		SuggestedBy: input.SuggestedBy,
	}
}

/*
POST /api/v1/admin/polls.

Request:
  - body: pollRequest

Response:
  - 201: PollInfo: The stored poll
  - 400: Validation: Missing title, option or close time
  - 404: ErrNotFound: Suggester not found
*/
func (handler *Handler) createPoll(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input pollRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	pollID, err := admin.CreatePoll(ctx, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	poll, err := admin.GetPoll(ctx, pollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, poll)
}

/*
PUT /api/v1/admin/polls/{id}.

Description: Replaces the editable fields. Setting closed only flips the flag.

Response:
  - 200: PollInfo: The updated poll
  - 404: ErrNotFound: Poll not found
*/
func (handler *Handler) updatePoll(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pollID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input pollRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	if err := admin.UpdatePoll(ctx, pollID, input.toInput()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	poll, err := admin.GetPoll(ctx, pollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, poll)
}

/*
DELETE /api/v1/admin/polls/{id}.

Response:
  - 204: No Content: Poll, submissions and discussion removed
  - 404: ErrNotFound: Poll not found
*/
func (handler *Handler) deletePoll(writer http.ResponseWriter, request *http.Request) {
	handler.deleteByID(writer, request, func(admin *safesession.AdminSession, id int64) error {
		return admin.DeletePoll(request.Context(), id)
	})
}

// # Users

/*
GET /api/v1/admin/users.

Response:
  - 200: []AccountInfo with pagination meta
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	users, total, err := admin.ListUsers(request.Context(), pageOf(params))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, params.Meta(total))
}

/*
DELETE /api/v1/admin/users/{id}.

Response:
  - 204: No Content: Account and authored content removed
  - 404: ErrNotFound: User not found
  - 409: ErrConflict: Administrators cannot delete themselves
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.UserIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := admin.DeleteUser(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Suggestions

/*
GET /api/v1/admin/suggestions.

Response:
  - 200: []Suggestion (pending only) with pagination meta
*/
func (handler *Handler) listSuggestions(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	suggestions, total, err := admin.ListSuggestions(request.Context(), pageOf(params))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, suggestions, params.Meta(total))
}

/*
GET /api/v1/admin/suggestions/{id}.

Response:
  - 200: Suggestion
  - 404: ErrNotFound: Suggestion not found
*/
func (handler *Handler) getSuggestion(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	suggestionID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	suggestion, err := admin.GetSuggestion(request.Context(), suggestionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, suggestion)
}

/*
POST /api/v1/admin/suggestions/{id}/approve.

Description: Creates a poll from the suggestion, open for seven days, and
dismisses the suggestion in the same transaction.

Response:
  - 201: PollInfo: The new poll
  - 404: ErrNotFound: Suggestion not found
  - 409: ErrConflict: Suggestion was already handled
*/
func (handler *Handler) approveSuggestion(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	suggestionID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	pollID, err := admin.ApproveSuggestion(ctx, suggestionID, handler.now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	poll, err := admin.GetPoll(ctx, pollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, poll)
}

/*
POST /api/v1/admin/suggestions/{id}/dismiss.

Response:
  - 204: No Content: Suggestion hidden
  - 404: ErrNotFound: Suggestion not found
*/
func (handler *Handler) dismissSuggestion(writer http.ResponseWriter, request *http.Request) {
	handler.deleteByID(writer, request, func(admin *safesession.AdminSession, id int64) error {
		return admin.DismissSuggestion(request.Context(), id)
	})
}

/*
DELETE /api/v1/admin/suggestions/{id}.

Response:
  - 204: No Content
  - 404: ErrNotFound: Suggestion not found
*/
func (handler *Handler) deleteSuggestion(writer http.ResponseWriter, request *http.Request) {
	handler.deleteByID(writer, request, func(admin *safesession.AdminSession, id int64) error {
		return admin.DeleteSuggestion(request.Context(), id)
	})
}

// # Comments

/*
GET /api/v1/admin/comments.

Response:
  - 200: []Comment newest first with replies nested, with pagination meta
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := admin.ListComments(request.Context(), pageOf(params))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, params.Meta(total))
}

// deleteComment handles DELETE /api/v1/admin/comments/{id}.
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	handler.deleteByID(writer, request, func(admin *safesession.AdminSession, id int64) error {
		return admin.DeleteComment(request.Context(), id)
	})
}

// deleteReply handles DELETE /api/v1/admin/replies/{id}.
func (handler *Handler) deleteReply(writer http.ResponseWriter, request *http.Request) {
	handler.deleteByID(writer, request, func(admin *safesession.AdminSession, id int64) error {
		return admin.DeleteReply(request.Context(), id)
	})
}

// deleteByID runs a no-content action against the numeric {id} parameter.
func (handler *Handler) deleteByID(writer http.ResponseWriter, request *http.Request, action func(*safesession.AdminSession, int64) error) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := action(admin, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
