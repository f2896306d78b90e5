//go:build unit
// +build unit

package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/atlaspay/go-dbpool/db/pool"
	"github.com/atlaspay/go-dbpool/retry"
)

func TestOnExhausted_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := retry.OnExhausted(context.Background(), func() error {
		calls++
		if calls < 3 {
			return pool.ErrExhausted
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestOnExhausted_OtherErrorsArePermanent(t *testing.T) {
	boom := errors.New("syntax error")
	calls := 0
	err := retry.OnExhausted(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestOnExhausted_WrappedExhaustionRetries(t *testing.T) {
	calls := 0
	err := retry.OnExhausted(context.Background(), func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("checkout payment row: %w", pool.ErrExhausted)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestOnExhausted_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := retry.OnExhausted(ctx, func() error {
		return pool.ErrExhausted
	})
	assert.Error(t, err)
}

func TestFast_Success(t *testing.T) {
	calls := 0
	err := retry.Fast(context.Background(), func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFast_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := retry.Fast(context.Background(), func() error {
		calls++
		return pool.ErrExhausted
	})
	assert.ErrorIs(t, err, pool.ErrExhausted)
	assert.Equal(t, 3, calls)
}

func TestFast_NonExhaustionReturnsImmediately(t *testing.T) {
	boom := errors.New("bad statement")
	calls := 0
	err := retry.Fast(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
