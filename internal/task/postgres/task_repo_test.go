// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/task"
)

func testTask(t *testing.T, tagIDs ...ulid.ULID) *task.Task {
	t.Helper()
	tk, err := task.NewTask(ulid.Make(), "write report", "quarterly numbers", nil, nil, tagIDs)
	require.NoError(t, err)
	return tk
}

func TestTaskRepository_Create(t *testing.T) {
	t.Run("task with tag links commits in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tagID := ulid.Make()
		tk := testTask(t, tagID)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO tasks`).
			WithArgs(tk.ID.String(), tk.UserID.String(), tk.Title, tk.Description,
				tk.Completed, pgxmock.AnyArg(), pgxmock.AnyArg(), tk.CreatedAt, tk.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO task_tags`).
			WithArgs(tk.ID.String(), tagID.String()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		repo := NewTaskRepository(mock)
		require.NoError(t, repo.Create(context.Background(), tk))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tag link failure rolls back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tagID := ulid.Make()
		tk := testTask(t, tagID)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO tasks`).
			WithArgs(tk.ID.String(), tk.UserID.String(), tk.Title, tk.Description,
				tk.Completed, pgxmock.AnyArg(), pgxmock.AnyArg(), tk.CreatedAt, tk.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO task_tags`).
			WithArgs(tk.ID.String(), tagID.String()).
			WillReturnError(errors.New("foreign key violation"))
		mock.ExpectRollback()

		repo := NewTaskRepository(mock)
		err = repo.Create(context.Background(), tk)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepository_GetByID(t *testing.T) {
	t.Run("found with tag links", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tagID := ulid.Make()
		tk := testTask(t)

		taskRows := pgxmock.NewRows([]string{
			"id", "user_id", "title", "description", "completed",
			"due_date", "priority_id", "created_at", "updated_at",
		}).AddRow(tk.ID.String(), tk.UserID.String(), tk.Title, tk.Description,
			tk.Completed, nil, nil, tk.CreatedAt, tk.UpdatedAt)

		mock.ExpectQuery(`SELECT id, user_id, title`).
			WithArgs(tk.ID.String(), tk.UserID.String()).
			WillReturnRows(taskRows)
		mock.ExpectQuery(`SELECT tag_id FROM task_tags`).
			WithArgs(tk.ID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"tag_id"}).AddRow(tagID.String()))

		repo := NewTaskRepository(mock)
		got, err := repo.GetByID(context.Background(), tk.ID, tk.UserID)
		require.NoError(t, err)
		assert.Equal(t, tk.Title, got.Title)
		require.Len(t, got.TagIDs, 1)
		assert.Equal(t, tagID, got.TagIDs[0])
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id, userID := ulid.Make(), ulid.Make()
		mock.ExpectQuery(`SELECT id, user_id, title`).
			WithArgs(id.String(), userID.String()).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "user_id", "title", "description", "completed",
				"due_date", "priority_id", "created_at", "updated_at",
			}))

		repo := NewTaskRepository(mock)
		_, err = repo.GetByID(context.Background(), id, userID)
		require.ErrorIs(t, err, task.ErrNotFound)
	})
}

func TestTaskRepository_Update(t *testing.T) {
	t.Run("replaces tag links in the same transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tagID := ulid.Make()
		tk := testTask(t, tagID)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tasks SET`).
			WithArgs(tk.ID.String(), tk.UserID.String(), tk.Title, tk.Description,
				tk.Completed, pgxmock.AnyArg(), pgxmock.AnyArg(), tk.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`DELETE FROM task_tags`).
			WithArgs(tk.ID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(`INSERT INTO task_tags`).
			WithArgs(tk.ID.String(), tagID.String()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		repo := NewTaskRepository(mock)
		require.NoError(t, repo.Update(context.Background(), tk))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows maps to ErrNotFound and rolls back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tk := testTask(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tasks SET`).
			WithArgs(tk.ID.String(), tk.UserID.String(), tk.Title, tk.Description,
				tk.Completed, pgxmock.AnyArg(), pgxmock.AnyArg(), tk.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		repo := NewTaskRepository(mock)
		require.ErrorIs(t, repo.Update(context.Background(), tk), task.ErrNotFound)
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id, userID := ulid.Make(), ulid.Make()
	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs(id.String(), userID.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewTaskRepository(mock)
	require.ErrorIs(t, repo.Delete(context.Background(), id, userID), task.ErrNotFound)
}
