// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist in either store.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication or a resource owned by another user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username or email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrValidation indicates a malformed or missing request field, rejected before any side effect.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream indicates a failure in the remote store or the mail transport.
	ErrUpstream = errors.New("upstream failure")
)
