// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package users provides the HTTP delivery layer for profiles, cosmetics and the
public leaderboards.

# Security

Endpoints under /me require an authenticated session and are always scoped to
the session's own user. Public profiles and leaderboards are open to anyone.
*/
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wevote/internal/platform/middleware"
	requestutil "github.com/taibuivan/wevote/internal/platform/request"
	"github.com/taibuivan/wevote/internal/platform/respond"
	"github.com/taibuivan/wevote/internal/platform/validate"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/convert"
)

// Handler implements the HTTP layer for user profiles.
type Handler struct{}

// NewHandler constructs a users [Handler]. All state lives in the caller's session.
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns a [chi.Router] configured with the profile endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Own profile
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me/bio", handler.updateBio)
		r.Get("/me/cosmetics", handler.getCosmetics)
		r.Put("/me/cosmetics/{slot}", handler.equipCosmetic)
	})

	// Public profile discovery
	router.Get("/{id}", handler.getUser)

	return router
}

// # Own Profile

/*
GET /api/v1/users/me.

Description: Retrieves the profile of the authenticated user.

Response:
  - 200: UserInfo: The caller's profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := session.CurrentUser().AsUser().Info(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

type updateBioRequest struct {
	Bio string `json:"bio"`
}

/*
PATCH /api/v1/users/me/bio.

Description: Replaces the authenticated user's bio.

Request:
  - body: updateBioRequest

Response:
  - 200: UserInfo: The updated profile
  - 400: Validation: Blank or oversized bio
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateBio(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateBioRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bio, bioErr := safesession.ValidateContent(input.Bio)
	if err := (&validate.Validator{}).Check("bio", bioErr).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	if err := session.UpdateBio(ctx, bio); err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := session.CurrentUser().AsUser().Info(ctx)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

/*
GET /api/v1/users/me/cosmetics.

Description: Lists the cosmetics the caller owns and the ones still available.

Response:
  - 200: Cosmetics
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getCosmetics(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cosmetics, err := session.Cosmetics(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cosmetics)
}

type equipRequest struct {
	CosmeticID int64 `json:"cosmeticId"`
}

/*
PUT /api/v1/users/me/cosmetics/{slot}.

Description: Displays an owned cosmetic in the given slot.

Request:
  - slot: front | middle | back
  - body: equipRequest

Response:
  - 204: No Content: Equipped
  - 400: Validation: Unknown slot or missing cosmetic ID
  - 404: ErrNotFound: Cosmetic not owned or not made for this slot
*/
func (handler *Handler) equipCosmetic(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input equipRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	slotName := requestutil.Param(request, "slot")

	v := &validate.Validator{}
	v.OneOf("slot", slotName, string(safesession.SlotFront), string(safesession.SlotMiddle), string(safesession.SlotBack)).
		Custom("cosmeticId", input.CosmeticID <= 0, "Must be a positive integer")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	slot, _ := safesession.ParseSlot(slotName)
	if err := session.EquipCosmetic(request.Context(), slot, input.CosmeticID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Public Profiles

/*
GET /api/v1/users/{id}.

Description: Retrieves public profile information for a specific user.

Request:
  - id: string (UUID)

Response:
  - 200: UserInfo: Public profile data
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	requester, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.UserIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctx := request.Context()
	user, err := requester.User(userID).ToRealUser(ctx)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := user.Info(ctx)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

/*
GET /api/v1/leaderboard.

Description: Returns the top streaks, lifetime points and cosmetic collectors.

Request:
  - size: optional query parameter, clamped to [1, 50]

Response:
  - 200: Leaderboards
*/
func (handler *Handler) Leaderboard(writer http.ResponseWriter, request *http.Request) {
	requester, err := requestutil.Session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	size := convert.ToInt(request.URL.Query().Get("size"))

	boards, err := requester.Leaderboards(request.Context(), size)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, boards)
}
