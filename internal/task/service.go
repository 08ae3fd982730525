// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides task operations for a single tenant at a time.
type Service struct {
	tasks  TaskRepository
	logger *slog.Logger
}

// NewService creates a task Service.
func NewService(tasks TaskRepository, logger *slog.Logger) (*Service, error) {
	if tasks == nil {
		return nil, oops.Code("TASK_SERVICE_INVALID").Errorf("task repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tasks: tasks, logger: logger}, nil
}

// TaskInput carries the mutable fields of a task. Nil pointers on update
// mean "leave unchanged".
type TaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	PriorityID  *ulid.ULID
	TagIDs      []ulid.ULID
}

// Create makes a new task owned by userID.
func (s *Service) Create(ctx context.Context, userID ulid.ULID, in TaskInput) (*Task, error) {
	title := ""
	if in.Title != nil {
		title = *in.Title
	}
	description := ""
	if in.Description != nil {
		description = *in.Description
	}

	t, err := NewTask(userID, title, description, in.DueDate, in.PriorityID, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, oops.Code("TASK_CREATE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}

	s.logger.Debug("task created", "task_id", t.ID.String(), "user_id", userID.String())
	return t, nil
}

// Get returns a task if it exists and belongs to userID.
func (s *Service) Get(ctx context.Context, id, userID ulid.ULID) (*Task, error) {
	t, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	return t, nil
}

// List returns all tasks owned by userID.
func (s *Service) List(ctx context.Context, userID ulid.ULID) ([]*Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	return tasks, nil
}

// Update applies the non-nil fields of in to the task, if owned by userID.
func (s *Service) Update(ctx context.Context, id, userID ulid.ULID, in TaskInput) (*Task, error) {
	t, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, oops.Code("TASK_INVALID_TITLE").Errorf("title cannot be empty")
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.PriorityID != nil {
		t.PriorityID = in.PriorityID
	}
	if in.TagIDs != nil {
		t.TagIDs = in.TagIDs
	}
	t.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, oops.Code("TASK_UPDATE_FAILED").
			With("task_id", id.String()).
			Wrap(err)
	}
	return t, nil
}

// Delete removes a task if owned by userID.
func (s *Service) Delete(ctx context.Context, id, userID ulid.ULID) error {
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		return err //nolint:wrapcheck // repository already wraps with context
	}
	s.logger.Debug("task deleted", "task_id", id.String(), "user_id", userID.String())
	return nil
}

// TagService provides tag operations.
type TagService struct {
	tags   TagRepository
	logger *slog.Logger
}

// NewTagService creates a TagService.
func NewTagService(tags TagRepository, logger *slog.Logger) (*TagService, error) {
	if tags == nil {
		return nil, oops.Code("TAG_SERVICE_INVALID").Errorf("tag repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TagService{tags: tags, logger: logger}, nil
}

// Create makes a new tag for userID. Duplicate names per user collapse to
// ErrDuplicateName whether caught here or by the unique constraint.
func (s *TagService) Create(ctx context.Context, userID ulid.ULID, name, color string) (*Tag, error) {
	tag, err := NewTag(userID, name, color)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	return tag, nil
}

// List returns all tags owned by userID.
func (s *TagService) List(ctx context.Context, userID ulid.ULID) ([]*Tag, error) {
	return s.tags.ListByUser(ctx, userID) //nolint:wrapcheck // repository already wraps
}

// Update changes name and/or color of a tag owned by userID.
func (s *TagService) Update(ctx context.Context, id, userID ulid.ULID, name, color *string) (*Tag, error) {
	tag, err := s.tags.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	if name != nil {
		if *name == "" {
			return nil, oops.Code("TAG_INVALID_NAME").Errorf("name cannot be empty")
		}
		tag.Name = *name
	}
	if color != nil {
		tag.Color = *color
	}
	tag.UpdatedAt = time.Now()

	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	return tag, nil
}

// Delete removes a tag owned by userID.
func (s *TagService) Delete(ctx context.Context, id, userID ulid.ULID) error {
	return s.tags.Delete(ctx, id, userID) //nolint:wrapcheck // repository already wraps
}

// PriorityService provides priority-level operations.
type PriorityService struct {
	priorities PriorityRepository
	logger     *slog.Logger
}

// NewPriorityService creates a PriorityService.
func NewPriorityService(priorities PriorityRepository, logger *slog.Logger) (*PriorityService, error) {
	if priorities == nil {
		return nil, oops.Code("PRIORITY_SERVICE_INVALID").Errorf("priority repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PriorityService{priorities: priorities, logger: logger}, nil
}

// Create makes a new priority level. Duplicate names yield ErrDuplicateName.
func (s *PriorityService) Create(ctx context.Context, name string, value int, color string) (*Priority, error) {
	_, err := s.priorities.GetByName(ctx, name)
	switch {
	case err == nil:
		return nil, oops.Code("PRIORITY_DUPLICATE").
			With("name", name).
			Wrap(ErrDuplicateName)
	case !errors.Is(err, ErrNotFound):
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}

	p, err := NewPriority(name, value, color)
	if err != nil {
		return nil, err
	}
	if err := s.priorities.Create(ctx, p); err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	return p, nil
}

// List returns all priority levels ordered by value.
func (s *PriorityService) List(ctx context.Context) ([]*Priority, error) {
	return s.priorities.List(ctx) //nolint:wrapcheck // repository already wraps
}

// Update changes fields of a priority level.
func (s *PriorityService) Update(ctx context.Context, id ulid.ULID, name *string, value *int, color *string) (*Priority, error) {
	p, err := s.priorities.GetByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	if name != nil {
		if *name == "" {
			return nil, oops.Code("PRIORITY_INVALID_NAME").Errorf("name cannot be empty")
		}
		p.Name = *name
	}
	if value != nil {
		p.Value = *value
	}
	if color != nil {
		p.Color = *color
	}
	p.UpdatedAt = time.Now()

	if err := s.priorities.Update(ctx, p); err != nil {
		return nil, err //nolint:wrapcheck // repository already wraps with context
	}
	return p, nil
}

// Delete removes a priority level.
func (s *PriorityService) Delete(ctx context.Context, id ulid.ULID) error {
	return s.priorities.Delete(ctx, id) //nolint:wrapcheck // repository already wraps
}

// defaultPriorities are seeded on a fresh install.
var defaultPriorities = []struct {
	name  string
	value int
	color string
}{
	{"Low", 1, "#90EE90"},
	{"Medium", 2, "#FFD700"},
	{"High", 3, "#FF6347"},
	{"Urgent", 4, "#DC143C"},
}

// SeedDefaults creates the default priority levels if none exist yet.
// Idempotent: a non-empty table is left untouched.
func (s *PriorityService) SeedDefaults(ctx context.Context) error {
	existing, err := s.priorities.List(ctx)
	if err != nil {
		return err //nolint:wrapcheck // repository already wraps with context
	}
	if len(existing) > 0 {
		s.logger.Info("priorities already seeded, skipping", "count", len(existing))
		return nil
	}

	for _, d := range defaultPriorities {
		p, err := NewPriority(d.name, d.value, d.color)
		if err != nil {
			return err
		}
		if err := s.priorities.Create(ctx, p); err != nil {
			return err //nolint:wrapcheck // repository already wraps with context
		}
	}
	s.logger.Info("default priorities created", "count", len(defaultPriorities))
	return nil
}
