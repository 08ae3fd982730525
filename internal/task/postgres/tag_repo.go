// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/task"
)

// TagRepository implements task.TagRepository using PostgreSQL.
type TagRepository struct {
	db store.Querier
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db store.Querier) *TagRepository {
	return &TagRepository{db: db}
}

// Create stores a new tag. A (user_id, name) unique violation is
// translated into task.ErrDuplicateName.
func (r *TagRepository) Create(ctx context.Context, tag *task.Tag) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tags (id, user_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		tag.ID.String(),
		tag.UserID.String(),
		tag.Name,
		tag.Color,
		tag.CreatedAt,
		tag.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("TAG_DUPLICATE").
				With("name", tag.Name).
				Wrap(task.ErrDuplicateName)
		}
		return oops.Code("TAG_CREATE_FAILED").
			With("operation", "insert tag").
			With("name", tag.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a tag owned by userID.
func (r *TagRepository) GetByID(ctx context.Context, id, userID ulid.ULID) (*task.Tag, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, color, created_at, updated_at
		FROM tags
		WHERE id = $1 AND user_id = $2
	`, id.String(), userID.String())

	tag, err := scanTag(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TAG_NOT_FOUND").
			With("tag_id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TAG_GET_FAILED").
			With("operation", "get tag by id").
			With("tag_id", id.String()).
			Wrap(err)
	}
	return tag, nil
}

// ListByUser retrieves all tags owned by userID, ordered by name.
func (r *TagRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*task.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, color, created_at, updated_at
		FROM tags
		WHERE user_id = $1
		ORDER BY name
	`, userID.String())
	if err != nil {
		return nil, oops.Code("TAG_LIST_FAILED").
			With("operation", "list tags").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var tags []*task.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, oops.Code("TAG_LIST_FAILED").
				With("operation", "scan tag row").
				Wrap(err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TAG_LIST_FAILED").
			With("operation", "iterate tags").
			Wrap(err)
	}
	return tags, nil
}

// Update updates a tag owned by its user.
func (r *TagRepository) Update(ctx context.Context, tag *task.Tag) error {
	result, err := r.db.Exec(ctx, `
		UPDATE tags SET name = $3, color = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
	`,
		tag.ID.String(),
		tag.UserID.String(),
		tag.Name,
		tag.Color,
		tag.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("TAG_DUPLICATE").
				With("name", tag.Name).
				Wrap(task.ErrDuplicateName)
		}
		return oops.Code("TAG_UPDATE_FAILED").
			With("operation", "update tag").
			With("tag_id", tag.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TAG_NOT_FOUND").
			With("tag_id", tag.ID.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// Delete removes a tag owned by userID.
func (r *TagRepository) Delete(ctx context.Context, id, userID ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM tags WHERE id = $1 AND user_id = $2
	`, id.String(), userID.String())
	if err != nil {
		return oops.Code("TAG_DELETE_FAILED").
			With("operation", "delete tag").
			With("tag_id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TAG_NOT_FOUND").
			With("tag_id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// scanTag scans a single row into a Tag.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTag(row pgx.Row) (*task.Tag, error) {
	var (
		idStr     string
		userIDStr string
		tag       task.Tag
	)

	err := row.Scan(&idStr, &userIDStr, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TAG_SCAN_FAILED").
			With("operation", "scan tag").
			Wrap(err)
	}

	if tag.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("TAG_INVALID_ID").With("id", idStr).Wrap(err)
	}
	if tag.UserID, err = ulid.Parse(userIDStr); err != nil {
		return nil, oops.Code("TAG_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
	}
	return &tag, nil
}

// Compile-time interface check.
var _ task.TagRepository = (*TagRepository)(nil)
