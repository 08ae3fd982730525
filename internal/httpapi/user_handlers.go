// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/auth"
)

// UserHandler serves the profile endpoints under /users/me.
type UserHandler struct {
	svc    *auth.Service
	logger *slog.Logger
}

func NewUserHandler(svc *auth.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

type updateProfileRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Get returns the authenticated user's profile.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Update applies a partial profile change. Absent fields are left as they
// are; an email collision surfaces as a 409.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), user, auth.ProfileUpdate{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}
