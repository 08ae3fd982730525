// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Alice@Example.COM", "alice@example.com"},
		{"trims whitespace", "  alice@example.com  ", "alice@example.com"},
		{"already normal", "alice@example.com", "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.input))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "alice@example.com", false},
		{"valid with plus", "alice+tag@example.com", false},
		{"empty", "", true},
		{"missing at", "alice.example.com", true},
		{"missing domain", "alice@", true},
		{"missing tld", "alice@example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Run("long enough", func(t *testing.T) {
		require.NoError(t, ValidatePassword("secret"))
	})

	t.Run("too short", func(t *testing.T) {
		require.Error(t, ValidatePassword("12345"))
	})

	t.Run("empty", func(t *testing.T) {
		require.Error(t, ValidatePassword(""))
	})
}

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		first := "Alice"
		user, err := NewUser("alice@example.com", "hash", &first, nil)
		require.NoError(t, err)

		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.Active)
		assert.Equal(t, &first, user.FirstName)
		assert.Nil(t, user.LastName)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "hash", nil, nil)
		require.Error(t, err)
	})

	t.Run("empty hash", func(t *testing.T) {
		_, err := NewUser("alice@example.com", "", nil, nil)
		require.Error(t, err)
	})
}

func TestUser_PasswordHashNeverMarshals(t *testing.T) {
	user, err := NewUser("alice@example.com", "super-secret-hash", nil, nil)
	require.NoError(t, err)

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret-hash")
}
