// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

// Package task provides the task-tracking domain: tasks, tags, and
// priority levels. Every read and write is scoped to the owning user;
// cross-tenant access is indistinguishable from absence.
package task

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Sentinel errors for the task domain.
var (
	// ErrNotFound is returned when an entity does not exist or belongs
	// to a different user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a tag or priority name collides.
	ErrDuplicateName = errors.New("name already exists")
)

// Task is a single tracked item owned by a user.
type Task struct {
	ID          ulid.ULID
	UserID      ulid.ULID
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	PriorityID  *ulid.ULID
	TagIDs      []ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tag is a user-scoped label. Names are unique per user.
type Tag struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Priority is a shared lookup level (Low, Medium, ...). Names are unique
// across the installation.
type Priority struct {
	ID        ulid.ULID
	Name      string
	Value     int
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTask creates a validated Task with fresh ID and timestamps.
func NewTask(userID ulid.ULID, title, description string, dueDate *time.Time, priorityID *ulid.ULID, tagIDs []ulid.ULID) (*Task, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("TASK_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if title == "" {
		return nil, oops.Code("TASK_INVALID_TITLE").Errorf("title cannot be empty")
	}

	now := time.Now()
	return &Task{
		ID:          ulid.Make(),
		UserID:      userID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		PriorityID:  priorityID,
		TagIDs:      tagIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewTag creates a validated Tag.
func NewTag(userID ulid.ULID, name, color string) (*Tag, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("TAG_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if name == "" {
		return nil, oops.Code("TAG_INVALID_NAME").Errorf("name cannot be empty")
	}

	now := time.Now()
	return &Tag{
		ID:        ulid.Make(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewPriority creates a validated Priority.
func NewPriority(name string, value int, color string) (*Priority, error) {
	if name == "" {
		return nil, oops.Code("PRIORITY_INVALID_NAME").Errorf("name cannot be empty")
	}

	now := time.Now()
	return &Priority{
		ID:        ulid.Make(),
		Name:      name,
		Value:     value,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TaskRepository manages task persistence. All operations that address an
// existing task take the owner's user ID and must not match rows owned by
// anyone else.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id, userID ulid.ULID) (*Task, error)
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id, userID ulid.ULID) error
}

// TagRepository manages tag persistence, scoped per user.
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id, userID ulid.ULID) (*Tag, error)
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Tag, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id, userID ulid.ULID) error
}

// PriorityRepository manages the shared priority levels.
type PriorityRepository interface {
	Create(ctx context.Context, priority *Priority) error
	GetByID(ctx context.Context, id ulid.ULID) (*Priority, error)
	GetByName(ctx context.Context, name string) (*Priority, error)
	List(ctx context.Context) ([]*Priority, error)
	Update(ctx context.Context, priority *Priority) error
	Delete(ctx context.Context, id ulid.ULID) error
}
