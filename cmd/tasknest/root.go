// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the TaskNest CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasknest",
		Short: "TaskNest - a multi-tenant task tracking service",
		Long: `TaskNest is a task tracking service with per-user tasks, tags,
shared priorities, and token-based authentication over a JSON API.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
