// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tasknest/tasknest/internal/task"
)

// PriorityHandler serves the priority lookup endpoints. Priorities are
// shared across users, so reads need only authentication.
type PriorityHandler struct {
	svc    *task.PriorityService
	logger *slog.Logger
}

func NewPriorityHandler(svc *task.PriorityService, logger *slog.Logger) *PriorityHandler {
	return &PriorityHandler{svc: svc, logger: logger}
}

type priorityRequest struct {
	Name  *string `json:"name"`
	Value *int    `json:"value"`
	Color *string `json:"color"`
}

type priorityResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Value     int    `json:"value"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toPriorityResponse(p *task.Priority) priorityResponse {
	return priorityResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Value:     p.Value,
		Color:     p.Color,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *PriorityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name, color := "", ""
	value := 0
	if req.Name != nil {
		name = *req.Name
	}
	if req.Value != nil {
		value = *req.Value
	}
	if req.Color != nil {
		color = *req.Color
	}

	p, err := h.svc.Create(r.Context(), name, value, color)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPriorityResponse(p))
}

func (h *PriorityHandler) List(w http.ResponseWriter, r *http.Request) {
	priorities, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := make([]priorityResponse, 0, len(priorities))
	for _, p := range priorities {
		resp = append(resp, toPriorityResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PriorityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req priorityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), id, req.Name, req.Value, req.Color)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPriorityResponse(p))
}

func (h *PriorityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
