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
)

func testPriority(t *testing.T) *task.Priority {
	t.Helper()
	p, err := task.NewPriority("High", 3, "#FF0000")
	require.NoError(t, err)
	return p
}

func priorityRows(priorities ...*task.Priority) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "value", "color", "created_at", "updated_at"})
	for _, p := range priorities {
		rows.AddRow(p.ID.String(), p.Name, p.Value, p.Color, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func TestPriorityRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		p := testPriority(t)
		mock.ExpectExec(`INSERT INTO priorities`).
			WithArgs(p.ID.String(), p.Name, p.Value, p.Color, p.CreatedAt, p.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewPriorityRepository(mock)
		require.NoError(t, repo.Create(context.Background(), p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateName", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		p := testPriority(t)
		mock.ExpectExec(`INSERT INTO priorities`).
			WithArgs(p.ID.String(), p.Name, p.Value, p.Color, p.CreatedAt, p.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewPriorityRepository(mock)
		require.ErrorIs(t, repo.Create(context.Background(), p), task.ErrDuplicateName)
	})
}

func TestPriorityRepository_GetByName(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		p := testPriority(t)
		mock.ExpectQuery(`SELECT id, name, value, color, created_at, updated_at\s+FROM priorities\s+WHERE name`).
			WithArgs(p.Name).
			WillReturnRows(priorityRows(p))

		repo := NewPriorityRepository(mock)
		got, err := repo.GetByName(context.Background(), p.Name)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, p.Value, got.Value)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, name, value, color, created_at, updated_at\s+FROM priorities\s+WHERE name`).
			WithArgs("Critical").
			WillReturnRows(priorityRows())

		repo := NewPriorityRepository(mock)
		_, err = repo.GetByName(context.Background(), "Critical")
		require.ErrorIs(t, err, task.ErrNotFound)
	})
}

func TestPriorityRepository_List(t *testing.T) {
	t.Run("returns rows in query order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		low, err := task.NewPriority("Low", 1, "#00FF00")
		require.NoError(t, err)
		high := testPriority(t)

		mock.ExpectQuery(`SELECT id, name, value, color, created_at, updated_at\s+FROM priorities\s+ORDER BY value`).
			WillReturnRows(priorityRows(low, high))

		repo := NewPriorityRepository(mock)
		got, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Low", got[0].Name)
		assert.Equal(t, "High", got[1].Name)
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		dbErr := errors.New("connection reset")
		mock.ExpectQuery(`SELECT id, name, value, color, created_at, updated_at\s+FROM priorities\s+ORDER BY value`).
			WillReturnError(dbErr)

		repo := NewPriorityRepository(mock)
		_, err = repo.List(context.Background())
		require.ErrorIs(t, err, dbErr)
	})
}

func TestPriorityRepository_Update(t *testing.T) {
	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		p := testPriority(t)
		mock.ExpectExec(`UPDATE priorities SET`).
			WithArgs(p.ID.String(), p.Name, p.Value, p.Color, p.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewPriorityRepository(mock)
		require.ErrorIs(t, repo.Update(context.Background(), p), task.ErrNotFound)
	})
}

func TestPriorityRepository_Delete(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM priorities`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewPriorityRepository(mock)
		require.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM priorities`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewPriorityRepository(mock)
		require.ErrorIs(t, repo.Delete(context.Background(), id), task.ErrNotFound)
	})
}
