// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/task"
)

// TaskHandler serves the task CRUD endpoints.
type TaskHandler struct {
	svc    *task.Service
	logger *slog.Logger
}

func NewTaskHandler(svc *task.Service, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

type taskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	PriorityID  *string    `json:"priority_id"`
	TagIDs      []string   `json:"tag_ids"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	PriorityID  *string    `json:"priority_id"`
	TagIDs      []string   `json:"tag_ids"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

func toTaskResponse(t *task.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		TagIDs:      make([]string, 0, len(t.TagIDs)),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.PriorityID != nil {
		s := t.PriorityID.String()
		resp.PriorityID = &s
	}
	for _, id := range t.TagIDs {
		resp.TagIDs = append(resp.TagIDs, id.String())
	}
	return resp
}

// authedUser pulls the guard-installed user, writing the uniform 401 when
// a route was somehow reached without it.
func authedUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
	}
	return user, ok
}

// idParam parses the {id} route parameter. A malformed ID addresses a
// resource that cannot exist, so it reads as a 404.
func idParam(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgNotFound})
		return ulid.ULID{}, false
	}
	return id, true
}

// taskInput converts the request DTO, validating embedded IDs.
func taskInput(w http.ResponseWriter, req taskRequest) (task.TaskInput, bool) {
	in := task.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
	}
	if req.PriorityID != nil {
		id, err := ulid.Parse(*req.PriorityID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid priority_id"})
			return task.TaskInput{}, false
		}
		in.PriorityID = &id
	}
	if req.TagIDs != nil {
		in.TagIDs = make([]ulid.ULID, 0, len(req.TagIDs))
		for _, raw := range req.TagIDs {
			id, err := ulid.Parse(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tag_ids"})
				return task.TaskInput{}, false
			}
			in.TagIDs = append(in.TagIDs, id)
		}
	}
	return in, true
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, ok := taskInput(w, req)
	if !ok {
		return
	}

	t, err := h.svc.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.svc.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), id, user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, ok := taskInput(w, req)
	if !ok {
		return
	}

	t, err := h.svc.Update(r.Context(), id, user.ID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id, user.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
