// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/task"
)

// PriorityRepository implements task.PriorityRepository using PostgreSQL.
type PriorityRepository struct {
	db store.Querier
}

// NewPriorityRepository creates a new PriorityRepository.
func NewPriorityRepository(db store.Querier) *PriorityRepository {
	return &PriorityRepository{db: db}
}

// Create stores a new priority level. A name collision is translated into
// task.ErrDuplicateName.
func (r *PriorityRepository) Create(ctx context.Context, p *task.Priority) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO priorities (id, name, value, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		p.ID.String(),
		p.Name,
		p.Value,
		p.Color,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("PRIORITY_DUPLICATE").
				With("name", p.Name).
				Wrap(task.ErrDuplicateName)
		}
		return oops.Code("PRIORITY_CREATE_FAILED").
			With("operation", "insert priority").
			With("name", p.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a priority level by ID.
func (r *PriorityRepository) GetByID(ctx context.Context, id ulid.ULID) (*task.Priority, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, value, color, created_at, updated_at
		FROM priorities
		WHERE id = $1
	`, id.String())

	p, err := scanPriority(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PRIORITY_NOT_FOUND").
			With("priority_id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PRIORITY_GET_FAILED").
			With("operation", "get priority by id").
			With("priority_id", id.String()).
			Wrap(err)
	}
	return p, nil
}

// GetByName retrieves a priority level by name.
func (r *PriorityRepository) GetByName(ctx context.Context, name string) (*task.Priority, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, value, color, created_at, updated_at
		FROM priorities
		WHERE name = $1
	`, name)

	p, err := scanPriority(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PRIORITY_NOT_FOUND").
			With("name", name).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PRIORITY_GET_FAILED").
			With("operation", "get priority by name").
			With("name", name).
			Wrap(err)
	}
	return p, nil
}

// List retrieves all priority levels ordered by value.
func (r *PriorityRepository) List(ctx context.Context) ([]*task.Priority, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, value, color, created_at, updated_at
		FROM priorities
		ORDER BY value
	`)
	if err != nil {
		return nil, oops.Code("PRIORITY_LIST_FAILED").
			With("operation", "list priorities").
			Wrap(err)
	}
	defer rows.Close()

	var priorities []*task.Priority
	for rows.Next() {
		p, err := scanPriority(rows)
		if err != nil {
			return nil, oops.Code("PRIORITY_LIST_FAILED").
				With("operation", "scan priority row").
				Wrap(err)
		}
		priorities = append(priorities, p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PRIORITY_LIST_FAILED").
			With("operation", "iterate priorities").
			Wrap(err)
	}
	return priorities, nil
}

// Update updates a priority level.
func (r *PriorityRepository) Update(ctx context.Context, p *task.Priority) error {
	result, err := r.db.Exec(ctx, `
		UPDATE priorities SET name = $2, value = $3, color = $4, updated_at = $5
		WHERE id = $1
	`,
		p.ID.String(),
		p.Name,
		p.Value,
		p.Color,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("PRIORITY_DUPLICATE").
				With("name", p.Name).
				Wrap(task.ErrDuplicateName)
		}
		return oops.Code("PRIORITY_UPDATE_FAILED").
			With("operation", "update priority").
			With("priority_id", p.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PRIORITY_NOT_FOUND").
			With("priority_id", p.ID.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// Delete removes a priority level. Tasks that referenced it fall back to
// no priority via ON DELETE SET NULL.
func (r *PriorityRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM priorities WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("PRIORITY_DELETE_FAILED").
			With("operation", "delete priority").
			With("priority_id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PRIORITY_NOT_FOUND").
			With("priority_id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// scanPriority scans a single row into a Priority.
// Callers are responsible for handling pgx.ErrNoRows.
func scanPriority(row pgx.Row) (*task.Priority, error) {
	var (
		idStr string
		p     task.Priority
	)

	err := row.Scan(&idStr, &p.Name, &p.Value, &p.Color, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PRIORITY_SCAN_FAILED").
			With("operation", "scan priority").
			Wrap(err)
	}

	if p.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("PRIORITY_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &p, nil
}

// Compile-time interface check.
var _ task.PriorityRepository = (*PriorityRepository)(nil)
