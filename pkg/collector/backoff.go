package collector

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// BackoffPolicy retries an operation a bounded number of times with
// exponential delay. There is deliberately no unbounded retry loop
// anywhere in the collector; every retry site carries its own policy.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultBackoff suits source discovery calls: three attempts starting at
// one second.
var DefaultBackoff = BackoffPolicy{MaxAttempts: 3, BaseDelay: time.Second}

// Retry runs fn until it succeeds, attempts are exhausted, or ctx is done.
// The delay doubles after each failed attempt.
func (p BackoffPolicy) Retry(ctx context.Context, op string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := p.BaseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.Warnf("%s failed (attempt %d/%d): %v, retrying in %v", op, attempt, attempts, err, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, err)
}
