// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tasknest/tasknest/internal/auth"
	authpg "github.com/tasknest/tasknest/internal/auth/postgres"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/httpapi"
	"github.com/tasknest/tasknest/internal/logging"
	"github.com/tasknest/tasknest/internal/observability"
	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/task"
	taskpg "github.com/tasknest/tasknest/internal/task/postgres"
)

// newServeCmd creates the serve subcommand with all flags configured.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server, serving authentication and task
endpoints, plus a separate metrics/health listener.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	// Dotted flag names overlay the matching config keys.
	cmd.Flags().String("server.addr", "", "API listen address")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("auth.secret", "", "token signing secret")
	cmd.Flags().String("log.format", "", "log format (json or text)")
	cmd.Flags().String("log.level", "", "log level (debug, info, warn, error)")
	cmd.Flags().String("metrics.addr", "", "metrics/health HTTP address (empty = disabled)")

	return cmd
}

// runServe wires the full service together and blocks until shutdown.
func runServe(ctx context.Context, cfg config.Config) error {
	logging.SetDefault(logging.Options{
		Service: "tasknest",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
	})
	logger := slog.Default()

	logger.Info("starting tasknest", "addr", cfg.Server.Addr)

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := authpg.NewUserRepository(pool)
	taskRepo := taskpg.NewTaskRepository(pool)
	tagRepo := taskpg.NewTagRepository(pool)
	priorityRepo := taskpg.NewPriorityRepository(pool)

	codec, err := auth.NewTokenCodec(auth.TokenConfig{
		Secret:     []byte(cfg.Auth.Secret),
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return err
	}

	authSvc, err := auth.NewServiceWithLogger(userRepo, auth.NewArgon2idHasher(), codec, logger)
	if err != nil {
		return err
	}
	taskSvc, err := task.NewService(taskRepo, logger)
	if err != nil {
		return err
	}
	tagSvc, err := task.NewTagService(tagRepo, logger)
	if err != nil {
		return err
	}
	prioritySvc, err := task.NewPriorityService(priorityRepo, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Metrics/health listener; readiness follows database reachability.
	var obsServer *observability.Server
	metrics := observability.NewMetrics(nil)
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(cfg.Metrics.Addr, func() bool {
			return pool.Ping(ctx) == nil
		})
		metrics = obsServer.Metrics()
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return err
		}
		go func() {
			if obsErr := <-obsErrCh; obsErr != nil {
				logger.Error("observability server error", "error", obsErr)
				cancel()
			}
		}()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	apiServer, err := httpapi.NewServer(cfg.Server.Addr, httpapi.Deps{
		Auth:       authSvc,
		Users:      userRepo,
		Codec:      codec,
		Tasks:      taskSvc,
		Tags:       tagSvc,
		Priorities: prioritySvc,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	apiErrCh := apiServer.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case runErr = <-apiErrCh:
		if runErr != nil {
			logger.Error("api server error", "error", runErr)
		}
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return runErr
}
