// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package poll provides the HTTP delivery layer for polls, votes, comments and
poll suggestions.

# Security

Every endpoint requires an authenticated session. Poll results returned here
have already passed the privacy filter: a caller sees vote counts only for polls
that are closed or that they have voted on.
*/
package poll

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wevote/internal/platform/ctxutil"
	"github.com/taibuivan/wevote/internal/platform/metrics"
	"github.com/taibuivan/wevote/internal/platform/middleware"
	requestutil "github.com/taibuivan/wevote/internal/platform/request"
	"github.com/taibuivan/wevote/internal/platform/respond"
	"github.com/taibuivan/wevote/internal/platform/validate"
	"github.com/taibuivan/wevote/internal/safesession"
)

// Handler implements the HTTP layer for polls and their discussion.
type Handler struct {
	metrics *metrics.Metrics
}

// NewHandler constructs a poll [Handler].
func NewHandler(metrics *metrics.Metrics) *Handler {
	return &Handler{metrics: metrics}
}

// Routes returns a [chi.Router] configured with the poll endpoints. It is
// mounted at the API root because replies and suggestions live outside /polls.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Polls
	router.Get("/polls", handler.homepage)
	router.Get("/polls/archive", handler.archive)
	router.Get("/polls/{id}", handler.getPoll)
	router.Put("/polls/{id}/vote", handler.vote)

	// Discussion
	router.Get("/polls/{id}/comments", handler.listComments)
	router.Post("/polls/{id}/comments", handler.addComment)
	router.Post("/comments/{id}/replies", handler.addReply)

	// Community
	router.Post("/suggestions", handler.suggest)

	return router
}

// created is the body returned for a new comment or reply.
type created struct {
	ID int64 `json:"id"`
}

// # Polls

/*
GET /api/v1/polls.

Description: Every open poll (unvoted first, soonest closing first) followed by
the most recently closed ones.

Response:
  - 200: []PollInfoForUser
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) homepage(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	polls, err := session.GetHomepagePollInfos(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, polls)
}

/*
GET /api/v1/polls/archive.

Description: Every closed poll, alphabetically by title.

Response:
  - 200: []PollInfoForUser
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) archive(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	polls, err := session.GetClosedPollInfos(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, polls)
}

/*
GET /api/v1/polls/{id}.

Description: One poll with the caller's own submission.

Response:
  - 200: PollInfoForUser
  - 400: Validation: Non-numeric ID
  - 404: ErrNotFound: Poll not found
*/
func (handler *Handler) getPoll(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pollID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	poll, err := session.GetPollInfo(request.Context(), pollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, poll)
}

type voteRequest struct {
	VoteA    *bool `json:"voteA"`
	PredictA *bool `json:"predictA"`
}

/*
PUT /api/v1/polls/{id}/vote.

Description: Records or replaces the caller's vote and prediction, then returns
the poll as the caller now sees it.

Request:
  - body: voteRequest (both fields required)

Response:
  - 200: PollInfoForUser
  - 400: Validation: Missing choice
  - 404: ErrNotFound: Poll not found
  - 409: ErrConflict: Poll is closed
*/
func (handler *Handler) vote(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pollID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input voteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Custom("voteA", input.VoteA == nil, "This field is required").
		Custom("predictA", input.PredictA == nil, "This field is required")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	if err := session.SubmitVote(ctx, pollID, *input.VoteA, *input.PredictA); err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.metrics.VotesSubmitted.Inc()

	ctxutil.GetLogger(ctx).InfoContext(ctx, "vote_submitted", slog.Int64("poll_id", pollID))

	poll, err := session.GetPollInfo(ctx, pollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, poll)
}

// # Discussion

/*
GET /api/v1/polls/{id}/comments.

Description: The poll's comments oldest first, each with its replies.

Response:
  - 200: []Comment
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pollID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := session.GetCommentsForPoll(request.Context(), pollID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comments)
}

type contentRequest struct {
	Content string `json:"content"`
}

/*
POST /api/v1/polls/{id}/comments.

Description: Posts a comment on a poll.

Response:
  - 201: created
  - 400: Validation: Blank or oversized content
  - 404: ErrNotFound: Poll not found
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pollID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	content, ok := decodeContent(writer, request)
	if !ok {
		return
	}

	id, err := session.AddComment(request.Context(), pollID, content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.metrics.CommentsPosted.Inc()

	respond.Created(writer, created{ID: id})
}

/*
POST /api/v1/comments/{id}/replies.

Description: Replies to a comment.

Response:
  - 201: created
  - 400: Validation: Blank or oversized content
  - 404: ErrNotFound: Comment not found
*/
func (handler *Handler) addReply(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	content, ok := decodeContent(writer, request)
	if !ok {
		return
	}

	id, err := session.AddReply(request.Context(), commentID, content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.metrics.CommentsPosted.Inc()

	respond.Created(writer, created{ID: id})
}

// decodeContent reads a contentRequest and rejects blank text before the
// session sees it. It writes the error response itself.
func decodeContent(writer http.ResponseWriter, request *http.Request) (string, bool) {
	var input contentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}

	_, contentErr := safesession.ValidateContent(input.Content)
	if err := (&validate.Validator{}).Check("content", contentErr).Err(); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}

	return input.Content, true
}

// # Community

type suggestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OptionA     string `json:"optionA"`
	OptionB     string `json:"optionB"`
}

/*
POST /api/v1/suggestions.

Description: Files a poll suggestion for admin review.

Response:
  - 201: Suggestion
  - 400: Validation: A blank or oversized field
*/
func (handler *Handler) suggest(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input suggestionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, titleErr := safesession.ValidateContent(input.Title)
	description, descriptionErr := safesession.ValidateContent(input.Description)
	optionA, optionAErr := safesession.ValidateContent(input.OptionA)
	optionB, optionBErr := safesession.ValidateContent(input.OptionB)

	v := &validate.Validator{}
	v.Check("title", titleErr).
		Check("description", descriptionErr).
		Check("optionA", optionAErr).
		Check("optionB", optionBErr)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	suggestion, err := session.SuggestPoll(request.Context(), title, description, optionA, optionB)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, suggestion)
}
