// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package auth

import "errors"

// Sentinel errors for the authentication subsystem. Services wrap these with
// oops codes; the HTTP layer matches on them with errors.Is to pick the
// status and public message, so internal cause never crosses the boundary.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for any bad email/password
	// combination. Unknown email and wrong password are deliberately
	// indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for any token verification failure:
	// bad signature, expired, malformed, wrong type, or unknown subject.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrDuplicateEmail is returned when registering or changing to an
	// email that is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)
