// Package limiter throttles repeated failed logins per (username, IP).
package limiter

import (
	"context"
	"time"
)

// Limiter gates login attempts. A caller asks Allow before verifying
// credentials and reports the outcome afterwards.
type Limiter interface {
	// Allow reports whether a login attempt may proceed, with a retry-after
	// hint when it may not.
	Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
	// Success clears the failure counter after a verified login.
	Success(ctx context.Context, username string, ipHash []byte) error
	// Failure counts a rejected attempt and reports whether it tripped a block.
	Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
}
