// Package pool implements a bounded database connection pool: a LIFO set
// of reusable live connections handed out under concurrency, with
// fail-fast behavior on exhaustion instead of a wait queue.
package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/atlaspay/go-dbpool/logger"
)

type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateClosed
)

// Pool owns a bounded set of Conns. Construct it explicitly and pass it
// by reference to whatever needs it; there is no package-level instance.
type Pool struct {
	factory Factory
	opts    Options
	log     logger.Interface

	mu         sync.Mutex
	state      State
	available  []Conn // LIFO: the most recently released connection sits on top
	checkedOut map[Conn]struct{}
	creating   int // factory calls in flight, counted toward MaxSize

	acquires      atomic.Uint64
	exhaustions   atomic.Uint64
	staleReplaced atomic.Uint64
}

type Option func(*Pool)

func WithLogger(l logger.Interface) Option {
	return func(p *Pool) { p.log = l }
}

func New(factory Factory, opts Options, options ...Option) (*Pool, error) {
	if factory == nil {
		return nil, fmt.Errorf("pool: nil factory")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Pool{
		factory:    factory,
		opts:       opts.withDefaults(),
		log:        logger.Nop(),
		checkedOut: make(map[Conn]struct{}),
	}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// Initialize opens MinSize connections. A failure to open any of them is
// treated as a configuration/connectivity error: everything opened so far
// is closed, the error propagates, and the pool stays Uninitialized.
// Safe to call concurrently; exactly one initialization happens and late
// callers observe the Ready pool.
func (p *Pool) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateReady:
		return nil
	case StateClosed:
		return ErrClosed
	}

	for i := 0; i < p.opts.MinSize; i++ {
		conn, err := p.factory(ctx)
		if err != nil {
			for _, c := range p.available {
				_ = c.Close(ctx)
			}
			p.available = nil
			return fmt.Errorf("pool: open initial connection %d/%d: %w", i+1, p.opts.MinSize, err)
		}
		p.available = append(p.available, conn)
	}
	p.state = StateReady
	p.log.Infow("pool initialized", "min_size", p.opts.MinSize, "max_size", p.opts.MaxSize)
	return nil
}

// Acquire hands out a connection or fails immediately.
//
// Order: most recently released connection first; then grow by one if the
// pool is under MaxSize; otherwise ErrExhausted. Connections pulled from
// the available set are probed first; a stale one is discarded and
// replaced without surfacing an error to the caller. A cancelled or
// expired caller context surfaces as the context error and leaves the
// pooled connections untouched.
func (p *Pool) Acquire(ctx context.Context) (Conn, error) {
	p.acquires.Add(1)

	for {
		p.mu.Lock()
		if p.state != StateReady {
			st := p.state
			p.mu.Unlock()
			if st == StateClosed {
				return nil, ErrClosed
			}
			return nil, ErrNotReady
		}

		if n := len(p.available); n > 0 {
			conn := p.available[n-1]
			p.available = p.available[:n-1]
			p.checkedOut[conn] = struct{}{}
			p.mu.Unlock()

			if err := p.probe(ctx, conn); err != nil {
				if cerr := ctx.Err(); cerr != nil {
					// The caller's context is dead; every ping would fail
					// regardless of connection health. Hand it back.
					p.Release(conn)
					return nil, cerr
				}
				p.discard(ctx, conn)
				p.staleReplaced.Add(1)
				p.log.Warnw("stale connection discarded", "error", err)
				continue
			}
			return conn, nil
		}

		// Growth decision stays under the lock so two callers cannot both
		// claim the MaxSize-th slot.
		if len(p.available)+len(p.checkedOut)+p.creating >= p.opts.MaxSize {
			p.mu.Unlock()
			p.exhaustions.Add(1)
			return nil, ErrExhausted
		}
		p.creating++
		p.mu.Unlock()

		conn, err := p.factory(ctx)

		p.mu.Lock()
		p.creating--
		if err != nil {
			p.mu.Unlock()
			return nil, fmt.Errorf("pool: open connection: %w", err)
		}
		if p.state != StateReady {
			p.mu.Unlock()
			_ = conn.Close(ctx)
			return nil, ErrClosed
		}
		p.checkedOut[conn] = struct{}{}
		p.mu.Unlock()
		return conn, nil
	}
}

// Release returns a checked-out connection to the available set. Nil,
// double releases and connections the pool never issued are silent
// no-ops, so defensive callers may release from both a success path and
// a deferred cleanup.
func (p *Pool) Release(conn Conn) {
	if conn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.checkedOut[conn]; !ok {
		return
	}
	delete(p.checkedOut, conn)
	p.available = append(p.available, conn)
}

// Shutdown closes every connection in both sets, clears them, and puts
// the pool in its terminal state. Every close is attempted even when some
// fail; failures are logged and the first one is returned. A second call
// is a no-op.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateClosed {
		p.mu.Unlock()
		return nil
	}
	p.state = StateClosed
	conns := make([]Conn, 0, len(p.available)+len(p.checkedOut))
	conns = append(conns, p.available...)
	for c := range p.checkedOut {
		conns = append(conns, c)
	}
	p.available = nil
	p.checkedOut = make(map[Conn]struct{})
	p.mu.Unlock()

	var g errgroup.Group
	for _, c := range conns {
		g.Go(func() error {
			if err := c.Close(ctx); err != nil {
				p.log.Errorw("close connection on shutdown", "error", err)
				return err
			}
			return nil
		})
	}
	err := g.Wait()
	p.log.Infow("pool shut down", "closed", len(conns))
	return err
}

// HealthCheck borrows a connection and pings it. Suitable as a /health
// probe (see the metrics package).
func (p *Pool) HealthCheck(ctx context.Context) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)
	return conn.Ping(ctx)
}

func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pool) probe(ctx context.Context, conn Conn) error {
	ctx, cancel := context.WithTimeout(ctx, p.opts.ProbeTimeout)
	defer cancel()
	return conn.Ping(ctx)
}

// discard drops a connection that failed its probe: remove it from the
// checked-out set and close it outside the lock.
func (p *Pool) discard(ctx context.Context, conn Conn) {
	p.mu.Lock()
	delete(p.checkedOut, conn)
	p.mu.Unlock()
	_ = conn.Close(ctx)
}
