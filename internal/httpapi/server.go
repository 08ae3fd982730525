// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/observability"
	"github.com/tasknest/tasknest/internal/task"
)

// Deps bundles everything the router needs. All fields are required.
type Deps struct {
	Auth       *auth.Service
	Users      auth.UserRepository
	Codec      *auth.TokenCodec
	Tasks      *task.Service
	Tags       *task.TagService
	Priorities *task.PriorityService
	Metrics    *observability.Metrics
	Logger     *slog.Logger
}

func (d Deps) validate() error {
	if d.Auth == nil || d.Users == nil || d.Codec == nil {
		return oops.Code("HTTPAPI_INVALID_DEPS").Errorf("auth dependencies cannot be nil")
	}
	if d.Tasks == nil || d.Tags == nil || d.Priorities == nil {
		return oops.Code("HTTPAPI_INVALID_DEPS").Errorf("task dependencies cannot be nil")
	}
	if d.Metrics == nil || d.Logger == nil {
		return oops.Code("HTTPAPI_INVALID_DEPS").Errorf("metrics and logger cannot be nil")
	}
	return nil
}

// NewRouter assembles the versioned API. Auth endpoints that establish a
// session are open; everything else sits behind the access-token guard.
func NewRouter(deps Deps) (chi.Router, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	authH := NewAuthHandler(deps.Auth, deps.Metrics, deps.Logger)
	userH := NewUserHandler(deps.Auth, deps.Logger)
	taskH := NewTaskHandler(deps.Tasks, deps.Logger)
	tagH := NewTagHandler(deps.Tags, deps.Logger)
	prioH := NewPriorityHandler(deps.Priorities, deps.Logger)

	guard := RequireAuth(deps.Codec, deps.Users, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CountRequests(deps.Metrics.RequestsTotal, deps.Logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/refresh", authH.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Post("/logout", authH.Logout)
				r.Get("/me", authH.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(guard)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", userH.Get)
				r.Put("/", userH.Update)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskH.Create)
				r.Get("/", taskH.List)
				r.Get("/{id}", taskH.Get)
				r.Put("/{id}", taskH.Update)
				r.Delete("/{id}", taskH.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Post("/", tagH.Create)
				r.Get("/", tagH.List)
				r.Put("/{id}", tagH.Update)
				r.Delete("/{id}", tagH.Delete)
			})

			r.Route("/priorities", func(r chi.Router) {
				r.Post("/", prioH.Create)
				r.Get("/", prioH.List)
				r.Put("/{id}", prioH.Update)
				r.Delete("/{id}", prioH.Delete)
			})
		})
	})

	return r, nil
}

// Server wraps the API in an http.Server with an explicit lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	running    atomic.Bool
}

// NewServer builds the API server listening on addr.
func NewServer(addr string, deps Deps) (*Server, error) {
	router, err := NewRouter(deps)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: deps.Logger,
	}, nil
}

// Start begins serving in a goroutine. The returned channel yields at most
// one error: a listen failure, or nil after a clean shutdown.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	if !s.running.CompareAndSwap(false, true) {
		errCh <- oops.Code("HTTPAPI_ALREADY_RUNNING").Errorf("server already running")
		return errCh
	}

	go func() {
		s.logger.Info("api server listening", "addr", s.httpServer.Addr)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- oops.Code("HTTPAPI_SERVE_FAILED").
				With("addr", s.httpServer.Addr).
				Wrap(err)
			return
		}
		errCh <- nil
	}()

	return errCh
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.logger.Info("api server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return oops.Code("HTTPAPI_SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}
