// Package retry holds caller-side backoff helpers. The pool and executor
// never retry on their own; exhaustion is reported immediately and the
// caller decides.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/atlaspay/go-dbpool/db/pool"
)

// OnExhausted runs fn under exponential backoff, retrying only while it
// fails with pool.ErrExhausted. Any other error is permanent and returns
// immediately.
func OnExhausted(ctx context.Context, fn func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 50 * time.Millisecond
	exp.Multiplier = 2.0
	exp.MaxInterval = 2 * time.Second
	exp.RandomizationFactor = 0.5
	exp.Reset()

	type unit struct{}
	op := func() (unit, error) {
		err := fn()
		if err != nil && !errors.Is(err, pool.ErrExhausted) {
			return unit{}, backoff.Permanent(err)
		}
		return unit{}, err
	}

	_, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(10*time.Second),
	)
	return err
}

// Fast is a fixed-delay fallback for callers that want a couple of cheap
// attempts without the full backoff machinery.
func Fast(ctx context.Context, fn func() error) error {
	const (
		maxAttempts = 3
		delay       = 100 * time.Millisecond
	)

	var err error
	for i := 0; i < maxAttempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, pool.ErrExhausted) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
