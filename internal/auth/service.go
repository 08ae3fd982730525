// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// dummyPasswordHash is used when a user doesn't exist to prevent timing
// attacks: password verification still runs so response time stays uniform.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates registration, login, logout, and token refresh.
// It holds no mutable state; all persistence goes through the user
// repository, and token issue/verify never touches I/O.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenCodec
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenCodec) (*Service, error) {
	return NewServiceWithLogger(users, hasher, tokens, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, tokens *TokenCodec, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token codec is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, logger: logger}, nil
}

// Register creates a new account. It validates and normalizes the email,
// hashes the password, and persists the user. No tokens are minted:
// registration and session creation are decoupled, the caller must log in
// separately. Returns ErrDuplicateEmail if the email is taken, whether
// detected by the pre-check or by the storage uniqueness constraint at
// write time.
func (s *Service) Register(ctx context.Context, email, password string, firstName, lastName *string) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	// Pre-check for a friendlier fast path; the unique index remains the
	// authority under concurrent registration.
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
			With("email", email).
			Wrap(ErrDuplicateEmail)
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("AUTH_DIRECTORY_UNAVAILABLE").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(email, hash, firstName, lastName)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost a race with a concurrent registration; same outcome
			// as the pre-check.
			return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", email).
				Wrap(ErrDuplicateEmail)
		}
		return nil, oops.Code("AUTH_DIRECTORY_UNAVAILABLE").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "email", user.Email)
	return user, nil
}

// Login verifies credentials and mints an access/refresh token pair for the
// user's normalized email. Unknown email, wrong password, and inactive
// account all produce the same ErrInvalidCredentials, and a dummy hash is
// verified when the user is unknown so timing stays uniform.
func (s *Service) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	email = NormalizeEmail(email)

	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = user.PasswordHash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
		// Keep the dummy hash; verification below still runs.
	default:
		return nil, TokenPair{}, oops.Code("AUTH_DIRECTORY_UNAVAILABLE").
			With("operation", "get user by email").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// A malformed stored hash is a verification failure, not a fatal
		// error; it must not be distinguishable from a wrong password.
		valid = false
	}

	if !userExists || !valid || !user.Active {
		s.logger.Debug("login rejected", "email", email)
		return nil, TokenPair{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	pair, err := s.tokens.IssuePair(user.Email)
	if err != nil {
		return nil, TokenPair{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token pair").
			Wrap(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID.String())
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
// An access token is never accepted here, and an unknown or inactive
// subject yields the same ErrInvalidToken as a bad signature — callers
// learn nothing about which check failed. The prior refresh token is not
// invalidated: tokens are stateless, clients are expected to discard the
// old pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.VerifyType(refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, oops.Code("AUTH_INVALID_TOKEN").
				With("cause", "unknown subject").
				Wrap(ErrInvalidToken)
		}
		return TokenPair{}, oops.Code("AUTH_DIRECTORY_UNAVAILABLE").
			With("operation", "get user by email").
			Wrap(err)
	}
	if !user.Active {
		return TokenPair{}, oops.Code("AUTH_INVALID_TOKEN").
			With("cause", "inactive subject").
			Wrap(ErrInvalidToken)
	}

	pair, err := s.tokens.IssuePair(user.Email)
	if err != nil {
		return TokenPair{}, oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "issue token pair").
			Wrap(err)
	}

	s.logger.Debug("tokens refreshed", "user_id", user.ID.String())
	return pair, nil
}

// ProfileUpdate carries the optional fields of a profile change. A nil
// pointer means "leave unchanged".
type ProfileUpdate struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// UpdateProfile applies a partial update to the given user and persists
// it. An email change is normalized and validated, and collides with the
// same ErrDuplicateEmail as registration. A password change is validated
// and re-hashed. Note that changing the email invalidates outstanding
// tokens implicitly, since their subject no longer resolves.
func (s *Service) UpdateProfile(ctx context.Context, user *User, update ProfileUpdate) (*User, error) {
	if update.Email != nil {
		email := NormalizeEmail(*update.Email)
		if err := ValidateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if update.Password != nil {
		if err := ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, oops.Code("AUTH_UPDATE_FAILED").
				With("operation", "hash password").
				Wrap(err)
		}
		user.PasswordHash = hash
	}
	if update.FirstName != nil {
		user.FirstName = update.FirstName
	}
	if update.LastName != nil {
		user.LastName = update.LastName
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", user.Email).
				Wrap(ErrDuplicateEmail)
		}
		return nil, oops.Code("AUTH_DIRECTORY_UNAVAILABLE").
			With("operation", "update user").
			Wrap(err)
	}

	s.logger.Info("profile updated", "user_id", user.ID.String())
	return user, nil
}

// Logout is a no-op at the stateless-token level and always succeeds.
// TODO: add a denylist or per-user token-generation counter so logout and
// refresh rotation actually revoke outstanding tokens.
func (s *Service) Logout(_ context.Context) error {
	return nil
}
