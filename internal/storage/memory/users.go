// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"
	"strings"

	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/uuid"
)

// InsertNewUser stores a member account. Emails are unique case-insensitively.
func (store *Store) InsertNewUser(_ context.Context, user safesession.NewUser) (string, error) {
	unlock := store.lock()
	defer unlock()

	if store.data.emailTaken(user.Email) {
		return "", safesession.ErrConflict
	}

	id, err := uuid.New()
	if err != nil {
		return "", err
	}

	store.data.users[id] = userRow{
		info: safesession.UserInfo{
			ID:          id,
			DisplayName: user.DisplayName,
			Bio:         user.Bio,
			Role:        string(sec.RoleMember),
			CreatedAt:   store.now(),
		},
		email:        user.Email,
		passwordHash: user.PasswordHash,
	}
	return id, nil
}

// UserExists reports whether id names a stored user.
func (store *Store) UserExists(_ context.Context, id string) (bool, error) {
	unlock := store.lock()
	defer unlock()

	_, ok := store.data.users[id]
	return ok, nil
}

// UserExistsByEmail reports whether an account uses email.
func (store *Store) UserExistsByEmail(_ context.Context, email string) (bool, error) {
	unlock := store.lock()
	defer unlock()

	return store.data.emailTaken(email), nil
}

// GetUserAuthDetails returns the credential stored for email.
func (store *Store) GetUserAuthDetails(_ context.Context, email string) (safesession.AuthDetails, error) {
	unlock := store.lock()
	defer unlock()

	for _, row := range store.data.users {
		if strings.EqualFold(row.email, email) {
			return safesession.AuthDetails{ID: row.info.ID, Hash: row.passwordHash}, nil
		}
	}
	return safesession.AuthDetails{}, safesession.ErrNotFound
}

// GetUserInfo returns the public profile for id.
func (store *Store) GetUserInfo(_ context.Context, id string) (safesession.UserInfo, error) {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.users[id]
	if !ok {
		return safesession.UserInfo{}, safesession.ErrNotFound
	}
	return row.info, nil
}

// UpdateBioForUser replaces the bio of id.
func (store *Store) UpdateBioForUser(_ context.Context, id, bio string) error {
	unlock := store.lock()
	defer unlock()

	row, ok := store.data.users[id]
	if !ok {
		return safesession.ErrNotFound
	}
	row.info.Bio = bio
	store.data.users[id] = row
	return nil
}

func (s *state) emailTaken(email string) bool {
	for _, row := range s.users {
		if strings.EqualFold(row.email, email) {
			return true
		}
	}
	return false
}

func (s *state) author(userID string) safesession.Author {
	return safesession.Author{ID: userID, DisplayName: s.users[userID].info.DisplayName}
}
