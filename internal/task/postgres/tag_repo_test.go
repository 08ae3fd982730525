// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/task"
	"github.com/tasknest/tasknest/pkg/errutil"
)

func testTag(t *testing.T) *task.Tag {
	t.Helper()
	tag, err := task.NewTag(ulid.Make(), "work", "#0000FF")
	require.NoError(t, err)
	return tag
}

func TestTagRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tag := testTag(t)
		mock.ExpectExec(`INSERT INTO tags`).
			WithArgs(tag.ID.String(), tag.UserID.String(), tag.Name, tag.Color,
				tag.CreatedAt, tag.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewTagRepository(mock)
		require.NoError(t, repo.Create(context.Background(), tag))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateName", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tag := testTag(t)
		mock.ExpectExec(`INSERT INTO tags`).
			WithArgs(tag.ID.String(), tag.UserID.String(), tag.Name, tag.Color,
				tag.CreatedAt, tag.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewTagRepository(mock)
		err = repo.Create(context.Background(), tag)
		require.ErrorIs(t, err, task.ErrDuplicateName)
		errutil.AssertErrorCode(t, err, "TAG_DUPLICATE")
		errutil.AssertErrorContext(t, err, "name", tag.Name)
	})
}

func TestTagRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tag := testTag(t)
		rows := pgxmock.NewRows([]string{"id", "user_id", "name", "color", "created_at", "updated_at"}).
			AddRow(tag.ID.String(), tag.UserID.String(), tag.Name, tag.Color,
				tag.CreatedAt, tag.UpdatedAt)
		mock.ExpectQuery(`SELECT id, user_id, name, color`).
			WithArgs(tag.ID.String(), tag.UserID.String()).
			WillReturnRows(rows)

		repo := NewTagRepository(mock)
		got, err := repo.GetByID(context.Background(), tag.ID, tag.UserID)
		require.NoError(t, err)
		assert.Equal(t, tag.Name, got.Name)
		assert.Equal(t, tag.UserID, got.UserID)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id, userID := ulid.Make(), ulid.Make()
		mock.ExpectQuery(`SELECT id, user_id, name, color`).
			WithArgs(id.String(), userID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "color", "created_at", "updated_at"}))

		repo := NewTagRepository(mock)
		_, err = repo.GetByID(context.Background(), id, userID)
		require.ErrorIs(t, err, task.ErrNotFound)
	})
}

func TestTagRepository_Delete(t *testing.T) {
	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id, userID := ulid.Make(), ulid.Make()
		mock.ExpectExec(`DELETE FROM tags`).
			WithArgs(id.String(), userID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewTagRepository(mock)
		require.ErrorIs(t, repo.Delete(context.Background(), id, userID), task.ErrNotFound)
	})

	t.Run("database error passes through", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id, userID := ulid.Make(), ulid.Make()
		mock.ExpectExec(`DELETE FROM tags`).
			WithArgs(id.String(), userID.String()).
			WillReturnError(errors.New("connection refused"))

		repo := NewTagRepository(mock)
		err = repo.Delete(context.Background(), id, userID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
