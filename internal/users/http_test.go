// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/internal/testutil"
	"github.com/taibuivan/wevote/internal/users"
)

func newServer(h *testutil.Harness) http.Handler {
	handler := users.NewHandler()

	router := chi.NewRouter()
	router.Mount("/users", handler.Routes())
	router.Get("/leaderboard", handler.Leaderboard)
	return h.Mount("/", router)
}

/*
TestProfile_Me verifies the own-profile endpoints require a session.
*/
func TestProfile_Me(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)
	userID := h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember)
	token := h.Token(t, userID)

	t.Run("Fails_Anonymous", func(t *testing.T) {
		recorder := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodGet, "/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Success", func(t *testing.T) {
		recorder := testutil.Do(server, testutil.WithToken(testutil.NewJSONRequest(t, http.MethodGet, "/users/me", nil), token))
		require.Equal(t, http.StatusOK, recorder.Code)

		info := testutil.Data[safesession.UserInfo](t, recorder)
		assert.Equal(t, userID, info.ID)
		assert.Equal(t, "Alice", info.DisplayName)
	})
}

/*
TestProfile_UpdateBio verifies validation and persistence of the bio.
*/
func TestProfile_UpdateBio(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)
	token := h.Token(t, h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember))

	tests := []struct {
		name     string
		bio      string
		wantCode int
		wantBio  string
	}{
		{name: "Success", bio: "  Third year CS  ", wantCode: http.StatusOK, wantBio: "Third year CS"},
		{name: "Fails_Blank", bio: "   ", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := testutil.NewJSONRequest(t, http.MethodPatch, "/users/me/bio", map[string]string{"bio": tt.bio})
			recorder := testutil.Do(server, testutil.WithToken(request, token))
			require.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantBio, testutil.Data[safesession.UserInfo](t, recorder).Bio)
			}
		})
	}
}

/*
TestProfile_Cosmetics verifies listing and equipping within the caller's own collection.
*/
func TestProfile_Cosmetics(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)

	userID := h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember)
	token := h.Token(t, userID)

	hat := h.Store.SeedCosmetic(safesession.SlotFront, 10, "/cosmetics/hat.png")
	cape := h.Store.SeedCosmetic(safesession.SlotBack, 20, "/cosmetics/cape.png")
	h.Store.GrantCosmetic(userID, hat)

	t.Run("List", func(t *testing.T) {
		recorder := testutil.Do(server, testutil.WithToken(testutil.NewJSONRequest(t, http.MethodGet, "/users/me/cosmetics", nil), token))
		require.Equal(t, http.StatusOK, recorder.Code)

		cosmetics := testutil.Data[safesession.Cosmetics](t, recorder)
		require.Len(t, cosmetics.Owned.Front, 1)
		assert.Equal(t, hat, cosmetics.Owned.Front[0].ID)
		require.Len(t, cosmetics.Available.Back, 1)
		assert.Equal(t, cape, cosmetics.Available.Back[0].ID)
	})

	tests := []struct {
		name       string
		slot       string
		cosmeticID int64
		wantCode   int
	}{
		{name: "Success", slot: "front", cosmeticID: hat, wantCode: http.StatusNoContent},
		{name: "Fails_NotOwned", slot: "back", cosmeticID: cape, wantCode: http.StatusNotFound},
		{name: "Fails_WrongSlot", slot: "back", cosmeticID: hat, wantCode: http.StatusNotFound},
		{name: "Fails_UnknownSlot", slot: "hat", cosmeticID: hat, wantCode: http.StatusBadRequest},
		{name: "Fails_MissingID", slot: "front", cosmeticID: 0, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := testutil.NewJSONRequest(t, http.MethodPut, "/users/me/cosmetics/"+tt.slot, map[string]int64{"cosmeticId": tt.cosmeticID})
			recorder := testutil.Do(server, testutil.WithToken(request, token))
			assert.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())
		})
	}

	me := testutil.Do(server, testutil.WithToken(testutil.NewJSONRequest(t, http.MethodGet, "/users/me", nil), token))
	assert.Equal(t, hat, testutil.Data[safesession.UserInfo](t, me).Displayed.Front)
}

/*
TestProfile_Public verifies public profiles resolve only existing users.
*/
func TestProfile_Public(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)
	userID := h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember)

	found := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodGet, "/users/"+userID, nil))
	require.Equal(t, http.StatusOK, found.Code)
	assert.Equal(t, "Alice", testutil.Data[safesession.UserInfo](t, found).DisplayName)

	malformed := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodGet, "/users/not-an-id", nil))
	assert.Equal(t, http.StatusNotFound, malformed.Code)

	missing := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodGet, "/users/0190b5a0-0000-7000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

/*
TestLeaderboard verifies ranking order and the size parameter.
*/
func TestLeaderboard(t *testing.T) {
	h := testutil.NewHarness(t)
	server := newServer(h)

	alice := h.SeedUser(t, "Alice", "alice@uwo.ca", "hunter22", sec.RoleMember)
	bob := h.SeedUser(t, "Bob", "bob@uwo.ca", "hunter22", sec.RoleMember)
	h.Store.SetStats(alice, 5, 50, 2)
	h.Store.SetStats(bob, 1, 10, 9)

	recorder := testutil.Do(server, testutil.NewJSONRequest(t, http.MethodGet, "/leaderboard?size=1", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	boards := testutil.Data[safesession.Leaderboards](t, recorder)
	require.Len(t, boards.Streak, 1)
	assert.Equal(t, bob, boards.Streak[0].UserID)
	require.Len(t, boards.LifetimePoints, 1)
	assert.Equal(t, alice, boards.LifetimePoints[0].UserID)
}
