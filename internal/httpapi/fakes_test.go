// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package httpapi

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/task"
)

// In-memory repositories backing the router under test. They enforce the
// same uniqueness rules as the real schema.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*auth.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := auth.NormalizeEmail(user.Email)
	if _, exists := r.users[key]; exists {
		return auth.ErrDuplicateEmail
	}
	clone := *user
	r.users[key] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[auth.NormalizeEmail(email)]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, auth.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, u := range r.users {
		if u.ID == user.ID {
			newKey := auth.NormalizeEmail(user.Email)
			if newKey != key {
				if _, taken := r.users[newKey]; taken {
					return auth.ErrDuplicateEmail
				}
				delete(r.users, key)
			}
			clone := *user
			r.users[newKey] = &clone
			return nil
		}
	}
	return auth.ErrNotFound
}

var _ auth.UserRepository = (*fakeUserRepo)(nil)

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[ulid.ULID]*task.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[ulid.ULID]*task.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id, userID ulid.ULID) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, task.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTaskRepo) ListByUser(_ context.Context, userID ulid.ULID) ([]*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*task.Task{}
	for _, t := range r.tasks {
		if t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return task.ErrNotFound
	}
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id, userID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return task.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

var _ task.TaskRepository = (*fakeTaskRepo)(nil)

type fakeTagRepo struct {
	mu   sync.Mutex
	tags map[ulid.ULID]*task.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[ulid.ULID]*task.Tag)}
}

func (r *fakeTagRepo) Create(_ context.Context, t *task.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tags {
		if existing.UserID == t.UserID && existing.Name == t.Name {
			return task.ErrDuplicateName
		}
	}
	clone := *t
	r.tags[t.ID] = &clone
	return nil
}

func (r *fakeTagRepo) GetByID(_ context.Context, id, userID ulid.ULID) (*task.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[id]
	if !ok || t.UserID != userID {
		return nil, task.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTagRepo) ListByUser(_ context.Context, userID ulid.ULID) ([]*task.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*task.Tag{}
	for _, t := range r.tags {
		if t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) Update(_ context.Context, t *task.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tags[t.ID]
	if !ok || existing.UserID != t.UserID {
		return task.ErrNotFound
	}
	clone := *t
	r.tags[t.ID] = &clone
	return nil
}

func (r *fakeTagRepo) Delete(_ context.Context, id, userID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[id]
	if !ok || t.UserID != userID {
		return task.ErrNotFound
	}
	delete(r.tags, id)
	return nil
}

var _ task.TagRepository = (*fakeTagRepo)(nil)

type fakePriorityRepo struct {
	mu         sync.Mutex
	priorities map[ulid.ULID]*task.Priority
}

func newFakePriorityRepo() *fakePriorityRepo {
	return &fakePriorityRepo{priorities: make(map[ulid.ULID]*task.Priority)}
}

func (r *fakePriorityRepo) Create(_ context.Context, p *task.Priority) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.priorities {
		if existing.Name == p.Name {
			return task.ErrDuplicateName
		}
	}
	clone := *p
	r.priorities[p.ID] = &clone
	return nil
}

func (r *fakePriorityRepo) GetByID(_ context.Context, id ulid.ULID) (*task.Priority, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.priorities[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakePriorityRepo) GetByName(_ context.Context, name string) (*task.Priority, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.priorities {
		if p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, task.ErrNotFound
}

func (r *fakePriorityRepo) List(_ context.Context) ([]*task.Priority, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*task.Priority{}
	for _, p := range r.priorities {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakePriorityRepo) Update(_ context.Context, p *task.Priority) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.priorities[p.ID]; !ok {
		return task.ErrNotFound
	}
	clone := *p
	r.priorities[p.ID] = &clone
	return nil
}

func (r *fakePriorityRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.priorities[id]; !ok {
		return task.ErrNotFound
	}
	delete(r.priorities, id)
	return nil
}

var _ task.PriorityRepository = (*fakePriorityRepo)(nil)
