// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tasknest/tasknest/internal/auth"
)

// contextKey is unexported so no other package can collide with or forge
// the authenticated-user entry.
type contextKey struct{}

var userContextKey contextKey

// UserFromContext returns the authenticated user placed in the request
// context by RequireAuth.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	u, ok := ctx.Value(userContextKey).(*auth.User)
	return u, ok
}

const bearerPrefix = "Bearer "

// bearerToken pulls the token out of the Authorization header. The scheme
// comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// RequireAuth guards a route subtree behind an access token. The token
// must verify, be of type access, and resolve to an active user; the user
// is then available via UserFromContext. Every failure mode produces the
// same 401 so a caller cannot probe which check tripped.
func RequireAuth(codec *auth.TokenCodec, users auth.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
				return
			}

			claims, err := codec.VerifyType(token, auth.TokenTypeAccess)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
				return
			}

			user, err := users.GetByEmail(r.Context(), claims.Subject)
			if err != nil {
				// A token for an unknown user and a storage failure look
				// identical to the client; only the latter is logged.
				if !errors.Is(err, auth.ErrNotFound) {
					logger.ErrorContext(r.Context(), "auth lookup failed", "error", err)
				}
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
				return
			}
			if !user.Active {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// CountRequests records per-request metrics and an access log line.
func CountRequests(requests *prometheus.CounterVec, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			requests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
