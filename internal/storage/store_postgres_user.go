// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"

	"github.com/taibuivan/wevote/internal/platform/database/schema"
	"github.com/taibuivan/wevote/internal/platform/dberr"
	"github.com/taibuivan/wevote/internal/platform/sec"
	"github.com/taibuivan/wevote/internal/safesession"
	"github.com/taibuivan/wevote/pkg/pointer"
	"github.com/taibuivan/wevote/pkg/uuid"
)

// # Users

/*
InsertNewUser creates a member account with a fresh UUIDv7.

Parameters:
  - context: context.Context
  - user: safesession.NewUser (password already hashed)

Returns:
  - string: the new user ID
  - error: safesession.ErrConflict for a taken email, or a storage failure
*/
func (repository *PostgresStore) InsertNewUser(context context.Context, user safesession.NewUser) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.Account.Table,
		schema.Account.ID, schema.Account.DisplayName, schema.Account.Email,
		schema.Account.Password, schema.Account.Bio, schema.Account.Role,
		schema.Account.ID,
	)

	id, err := uuid.New()
	if err != nil {
		return "", err
	}

	err = repository.db.QueryRow(context, query,
		id, user.DisplayName, user.Email, user.PasswordHash, user.Bio, string(sec.RoleMember),
	).Scan(&id)
	if err != nil {
		return "", dberr.Wrap(err, "postgres_user_repo_insert_failed")
	}

	return id, nil
}

// UserExists reports whether id names a stored account.
func (repository *PostgresStore) UserExists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.Account.Table, schema.Account.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_user_repo_exists_failed")
	}
	return exists, nil
}

// UserExistsByEmail reports whether an account uses email, ignoring case.
func (repository *PostgresStore) UserExistsByEmail(context context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE lower(%s) = lower($1))`,
		schema.Account.Table, schema.Account.Email)

	var exists bool
	if err := repository.db.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_user_repo_exists_by_email_failed")
	}
	return exists, nil
}

// GetUserAuthDetails returns the ID and password hash stored for email.
func (repository *PostgresStore) GetUserAuthDetails(context context.Context, email string) (safesession.AuthDetails, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE lower(%s) = lower($1)`,
		schema.Account.ID, schema.Account.Password, schema.Account.Table, schema.Account.Email)

	var details safesession.AuthDetails
	if err := repository.db.QueryRow(context, query, email).Scan(&details.ID, &details.Hash); err != nil {
		return safesession.AuthDetails{}, dberr.Wrap(err, "postgres_user_repo_auth_details_failed")
	}
	return details, nil
}

/*
GetUserInfo retrieves a public profile from wevote.account.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - safesession.UserInfo: the profile; unequipped slots are 0
  - error: safesession.ErrNotFound or a storage failure
*/
func (repository *PostgresStore) GetUserInfo(context context.Context, id string) (safesession.UserInfo, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.Account.ID, schema.Account.DisplayName, schema.Account.Bio,
		schema.Account.Points, schema.Account.LifetimePoints, schema.Account.Streak,
		schema.Account.PredictionAccuracy, schema.Account.Role,
		schema.Account.DisplayedFront, schema.Account.DisplayedMiddle, schema.Account.DisplayedBack,
		schema.Account.CreatedAt,
		schema.Account.Table,
		schema.Account.ID,
	)

	var info safesession.UserInfo
	var front, middle, back *int64
	err := repository.db.QueryRow(context, query, id).Scan(
		&info.ID, &info.DisplayName, &info.Bio,
		&info.Points, &info.LifetimePoints, &info.Streak,
		&info.PredictionAccuracy, &info.Role,
		&front, &middle, &back,
		&info.CreatedAt,
	)
	if err != nil {
		return safesession.UserInfo{}, dberr.Wrap(err, "postgres_user_repo_info_failed")
	}

	info.Displayed = safesession.Displayed{
		Front:  pointer.Val(front),
		Middle: pointer.Val(middle),
		Back:   pointer.Val(back),
	}
	return info, nil
}

// UpdateBioForUser replaces the bio of id.
func (repository *PostgresStore) UpdateBioForUser(context context.Context, id, bio string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Account.Table, schema.Account.Bio, schema.Account.ID)

	tag, err := repository.db.Exec(context, query, id, bio)
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_bio_failed")
	}
	if tag.RowsAffected() == 0 {
		return safesession.ErrNotFound
	}
	return nil
}

// GetUserRole returns the stored role of id.
func (repository *PostgresStore) GetUserRole(context context.Context, id string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Account.Role, schema.Account.Table, schema.Account.ID)

	var role string
	if err := repository.db.QueryRow(context, query, id).Scan(&role); err != nil {
		return "", dberr.Wrap(err, "postgres_user_repo_role_failed")
	}
	return role, nil
}
