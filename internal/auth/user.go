// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Password policy.
const MinPasswordLength = 6

// emailRegex matches a pragmatic email shape: local part, @, domain with a
// TLD of at least two letters. Full RFC 5322 validation is intentionally
// out of scope; the mailbox either exists or it doesn't.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User represents a registered account. The password hash never leaves the
// auth package boundary: it is excluded from JSON and response DTOs.
type User struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string `json:"-"`
	FirstName    *string
	LastName     *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a validated User with a fresh ID and timestamps.
// Email must already be normalized; passwordHash must be non-empty.
func NewUser(email, passwordHash string, firstName, lastName *string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// stored values go through this, so `A@x.com` and `a@x.com ` refer to the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the shape of an (already normalized) email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks a plaintext password against the policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code("AUTH_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// UserRepository manages user persistence. Implementations must enforce
// email uniqueness with a storage-level constraint and translate violations
// into ErrDuplicateEmail, since concurrent registrations are not serialized
// above this layer.
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicateEmail if the email
	// is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates an existing user. Returns ErrNotFound if absent and
	// ErrDuplicateEmail if an email change collides.
	Update(ctx context.Context, user *User) error
}
