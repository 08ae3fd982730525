// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

// Package httpapi exposes the TaskNest JSON API over HTTP. Handlers are
// thin: they decode requests, call a service, and encode the result. All
// error-to-status mapping lives here, behind a closed table, so services
// never shape HTTP responses and internals never leak to clients.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/task"
	"github.com/tasknest/tasknest/pkg/errutil"
)

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// userResponse is the public projection of a User. The password hash has
// no field here by construction.
type userResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client may have disconnected; nothing useful to do
	json.NewEncoder(w).Encode(v)
}

// validationCodes maps oops codes of expected input failures to 400.
// Anything not in a table below falls through to a 500 with a generic
// message; the detail stays in the server log.
var validationCodes = map[string]struct{}{
	"AUTH_INVALID_EMAIL":    {},
	"AUTH_INVALID_PASSWORD": {},
	"AUTH_EMPTY_PASSWORD":   {},
	"TASK_INVALID_TITLE":    {},
	"TAG_INVALID_NAME":      {},
	"PRIORITY_INVALID_NAME": {},
}

// Public messages for expected outcomes. Internal wording never crosses
// the boundary; these strings are the whole vocabulary.
const (
	msgUnauthorized   = "unauthorized"
	msgInvalidLogin   = "incorrect email or password"
	msgInvalidToken   = "invalid or expired token"
	msgDuplicateEmail = "email already registered"
	msgDuplicateName  = "name already exists"
	msgNotFound       = "not found"
	msgInternal       = "internal server error"
)

// writeError maps err onto a status and public message. Expected outcomes
// (validation, auth failures, conflicts) are control flow and are not
// logged as errors; everything else is logged with full context and
// surfaced as an opaque 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgInvalidLogin})
	case errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgInvalidToken})
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, errorResponse{Error: msgDuplicateEmail})
	case errors.Is(err, task.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, errorResponse{Error: msgDuplicateName})
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, task.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgNotFound})
	case isValidationError(err):
		// Validation messages are written for end users; safe to expose.
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		errutil.LogError(logger, "request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}

func isValidationError(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	code, ok := oopsErr.Code().(string)
	if !ok {
		return false
	}
	_, listed := validationCodes[code]
	return listed
}

// decodeJSON decodes a request body into v, rejecting unknown fields.
// On a malformed body it writes the 400 itself and reports false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}
