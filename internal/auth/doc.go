// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

// Package auth provides the authentication core of TaskNest: password
// hashing, signed access/refresh tokens, and the service that orchestrates
// registration, login, logout, and token refresh.
//
// # Domain Types
//
// User should be created through NewUser, which validates the email shape
// and stamps ID and timestamps. Direct struct initialization bypasses
// validation and may create invalid state. Repository implementations
// receive pre-validated values.
//
// # Services
//
// Service coordinates the credential hasher, the token codec, and the user
// repository. Create it with NewService or NewServiceWithLogger; both
// validate their dependencies.
//
// # Error contract
//
// Expected failures map onto a closed set of sentinel errors (ErrNotFound,
// ErrInvalidCredentials, ErrInvalidToken, ErrDuplicateEmail) that callers
// match with errors.Is. Storage failures are wrapped with oops codes and
// carry internal context for logging only.
package auth
