package pool

import "errors"

var (
	// ErrNotReady is returned by Acquire before Initialize has completed.
	ErrNotReady = errors.New("pool is not initialized")

	// ErrExhausted is returned by Acquire when every connection is checked
	// out and the pool is at MaxSize. Recoverable: the caller owns
	// retry/backoff (see the retry package).
	ErrExhausted = errors.New("pool is exhausted")

	// ErrClosed is returned once Shutdown has run. Terminal.
	ErrClosed = errors.New("pool is closed")
)
