package retry

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInterval is the pause between attempts unless the caller overrides it.
const DefaultInterval = 50 * time.Millisecond

// errNoAttempts is returned when the requested attempt count is zero.
var errNoAttempts = errors.New("attempt count must be positive")

// Do runs op up to attempts times with a constant interval between tries.
// The sequence is not cancellable; the last error is returned after exhaustion.
func Do(attempts uint64, interval time.Duration, op func() error) error {
	if attempts == 0 {
		return errNoAttempts
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts-1)

	return backoff.Retry(op, policy)
}
