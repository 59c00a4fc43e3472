// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/wevote/internal/platform/dberr"
	"github.com/taibuivan/wevote/internal/safesession"
)

/*
TestWrap maps server errors onto the store sentinels.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     error
		retry    bool
		wantsNil bool
	}{
		{"nil", nil, nil, false, true},
		{"no_rows", pgx.ErrNoRows, safesession.ErrNotFound, false, false},
		{"foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, safesession.ErrNotFound, false, false},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}, safesession.ErrConflict, false, false},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, nil, true, false},
		{"other", errors.New("connection refused"), nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "postgres_test_op_failed")
			if tt.wantsNil {
				assert.NoError(t, wrapped)
				return
			}

			assert.ErrorIs(t, wrapped, tt.err)
			assert.Contains(t, wrapped.Error(), "postgres_test_op_failed")
			if tt.want != nil {
				assert.ErrorIs(t, wrapped, tt.want)
			} else {
				assert.False(t, errors.Is(wrapped, safesession.ErrNotFound))
				assert.False(t, errors.Is(wrapped, safesession.ErrConflict))
			}
			assert.Equal(t, tt.retry, dberr.IsRetryable(wrapped))
		})
	}
}

/*
TestConstraint exposes the violated constraint name.
*/
func TestConstraint(t *testing.T) {
	err := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_pkey"}, "op")
	assert.Equal(t, "users_pkey", dberr.Constraint(err))
	assert.Empty(t, dberr.Constraint(errors.New("plain")))
}
