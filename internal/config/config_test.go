// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Auth.Secret, "secret must have no default")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("no file keeps defaults", func(t *testing.T) {
		cfg, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  addr: ":9090"
database:
  url: postgres://localhost/tasknest
auth:
  secret: file-secret
  access_ttl: 5m
log:
  level: debug
`)
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "postgres://localhost/tasknest", cfg.Database.URL)
		assert.Equal(t, "file-secret", cfg.Auth.Secret)
		assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL)
		assert.Equal(t, "debug", cfg.Log.Level)
		// untouched keys keep defaults
		assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	})

	t.Run("flags override file", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  addr: ":9090"
auth:
  secret: file-secret
`)
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("server.addr", "", "")
		flags.String("auth.secret", "", "")
		require.NoError(t, flags.Parse([]string{"--server.addr", ":7070"}))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Server.Addr)
		// unset flags do not clobber file values
		assert.Equal(t, "file-secret", cfg.Auth.Secret)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml", nil)
		require.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := writeConfigFile(t, "{not yaml::")
		_, err := Load(path, nil)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Database.URL = "postgres://localhost/tasknest"
	valid.Auth.Secret = "secret"

	t.Run("complete config passes", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := valid
		cfg.Database.URL = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := valid
		cfg.Auth.Secret = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive lifetimes", func(t *testing.T) {
		cfg := valid
		cfg.Auth.AccessTTL = 0
		require.Error(t, cfg.Validate())
	})
}
