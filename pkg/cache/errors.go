package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a remote cache backend cannot be reached.
var ErrNetwork = errors.New("cache: network error")

// backoff is a retry schedule for operations that fail with [ErrNetwork].
type backoff struct {
	attempts int
	delay    time.Duration // before the second attempt; doubles afterwards
}

// connectBackoff is used when dialing Redis at startup.
var connectBackoff = backoff{attempts: 3, delay: time.Second}

// do calls fn until it succeeds or fails with an error other than
// ErrNetwork, at most b.attempts times. Cancelling ctx stops the wait
// between attempts.
func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !errors.Is(err, ErrNetwork) || attempt >= b.attempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
