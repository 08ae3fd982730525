// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

// Package postgres implements task repositories over PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/task"
)

// TaskRepository implements task.TaskRepository using PostgreSQL.
// Writes that touch both tasks and task_tags run inside a transaction so a
// failure after the task row never leaves dangling tag links.
type TaskRepository struct {
	db store.TxQuerier
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db store.TxQuerier) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a new task and its tag links.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // no-op after commit

	var priorityID *string
	if t.PriorityID != nil {
		s := t.PriorityID.String()
		priorityID = &s
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO tasks (
			id, user_id, title, description, completed,
			due_date, priority_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		t.ID.String(),
		t.UserID.String(),
		t.Title,
		t.Description,
		t.Completed,
		t.DueDate,
		priorityID,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("task_id", t.ID.String()).
			Wrap(err)
	}

	if err := insertTagLinks(ctx, tx, t.ID, t.TagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "commit").
			With("task_id", t.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a task owned by userID.
func (r *TaskRepository) GetByID(ctx context.Context, id, userID ulid.ULID) (*task.Task, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, description, completed,
		       due_date, priority_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id.String(), userID.String())

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TASK_NOT_FOUND").
			With("task_id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get task by id").
			With("task_id", id.String()).
			Wrap(err)
	}

	if t.TagIDs, err = r.tagIDsFor(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByUser retrieves all tasks owned by userID, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*task.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, description, completed,
		       due_date, priority_id, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, oops.Code("TASK_LIST_FAILED").
				With("operation", "scan task row").
				Wrap(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "iterate tasks").
			Wrap(err)
	}

	for _, t := range tasks {
		if t.TagIDs, err = r.tagIDsFor(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// Update updates a task and replaces its tag links.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // no-op after commit

	var priorityID *string
	if t.PriorityID != nil {
		s := t.PriorityID.String()
		priorityID = &s
	}

	result, err := tx.Exec(ctx, `
		UPDATE tasks SET
			title = $3,
			description = $4,
			completed = $5,
			due_date = $6,
			priority_id = $7,
			updated_at = $8
		WHERE id = $1 AND user_id = $2
	`,
		t.ID.String(),
		t.UserID.String(),
		t.Title,
		t.Description,
		t.Completed,
		t.DueDate,
		priorityID,
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("task_id", t.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("task_id", t.ID.String()).
			Wrap(task.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, t.ID.String()); err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "clear tag links").
			With("task_id", t.ID.String()).
			Wrap(err)
	}
	if err := insertTagLinks(ctx, tx, t.ID, t.TagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "commit").
			With("task_id", t.ID.String()).
			Wrap(err)
	}
	return nil
}

// Delete removes a task owned by userID. Tag links go with it via cascade.
func (r *TaskRepository) Delete(ctx context.Context, id, userID ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`, id.String(), userID.String())
	if err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("task_id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("task_id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// tagIDsFor loads the tag links of a task.
func (r *TaskRepository) tagIDsFor(ctx context.Context, taskID ulid.ULID) ([]ulid.ULID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT tag_id FROM task_tags WHERE task_id = $1 ORDER BY tag_id
	`, taskID.String())
	if err != nil {
		return nil, oops.Code("TASK_TAGS_FAILED").
			With("operation", "get tag links").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var ids []ulid.ULID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, oops.Code("TASK_TAGS_FAILED").
				With("operation", "scan tag link").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("TASK_TAGS_FAILED").
				With("operation", "parse tag id").
				With("tag_id", idStr).
				Wrap(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TASK_TAGS_FAILED").
			With("operation", "iterate tag links").
			Wrap(err)
	}
	return ids, nil
}

// insertTagLinks writes task_tags rows inside the given transaction.
func insertTagLinks(ctx context.Context, tx pgx.Tx, taskID ulid.ULID, tagIDs []ulid.ULID) error {
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)
		`, taskID.String(), tagID.String()); err != nil {
			return oops.Code("TASK_TAGS_FAILED").
				With("operation", "insert tag link").
				With("task_id", taskID.String()).
				With("tag_id", tagID.String()).
				Wrap(err)
		}
	}
	return nil
}

// scanTask scans a single row into a Task. TagIDs are loaded separately.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		idStr         string
		userIDStr     string
		title         string
		description   string
		completed     bool
		dueDate       *time.Time
		priorityIDStr *string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(
		&idStr,
		&userIDStr,
		&title,
		&description,
		&completed,
		&dueDate,
		&priorityIDStr,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TASK_SCAN_FAILED").
			With("operation", "scan task").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_ID").With("id", idStr).Wrap(err)
	}
	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
	}

	var priorityID *ulid.ULID
	if priorityIDStr != nil {
		parsed, err := ulid.Parse(*priorityIDStr)
		if err != nil {
			return nil, oops.Code("TASK_INVALID_PRIORITY_ID").
				With("priority_id", *priorityIDStr).
				Wrap(err)
		}
		priorityID = &parsed
	}

	return &task.Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   completed,
		DueDate:     dueDate,
		PriorityID:  priorityID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ task.TaskRepository = (*TaskRepository)(nil)
