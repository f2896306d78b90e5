// Package pooltest provides an in-memory pool.Conn and factory for unit
// tests of the pool, the executor and anything built on top of them.
package pooltest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atlaspay/go-dbpool/db/pool"
)

// Conn is a scriptable fake connection.
type Conn struct {
	ID int

	PingErr  error
	ExecErr  error
	QueryErr error
	CloseErr error

	// Affected is what Exec reports.
	Affected int64

	// Rows is what Query yields, one slice of column values per row.
	Rows [][]any

	// RowsErr is the deferred error the yielded cursor reports from Err.
	RowsErr error

	closed  atomic.Bool
	execs   atomic.Int64
	queries atomic.Int64
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if c.closed.Load() {
		return 0, errors.New("pooltest: conn is closed")
	}
	if c.ExecErr != nil {
		return 0, c.ExecErr
	}
	c.execs.Add(1)
	return c.Affected, nil
}

func (c *Conn) Query(ctx context.Context, query string, args ...any) (pool.Rows, error) {
	if c.closed.Load() {
		return nil, errors.New("pooltest: conn is closed")
	}
	if c.QueryErr != nil {
		return nil, c.QueryErr
	}
	c.queries.Add(1)
	return &Rows{rows: c.Rows, err: c.RowsErr}, nil
}

func (c *Conn) Ping(ctx context.Context) error {
	// Real drivers fail a ping on a dead context before touching the wire.
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed.Load() {
		return errors.New("pooltest: conn is closed")
	}
	return c.PingErr
}

func (c *Conn) Close(ctx context.Context) error {
	c.closed.Store(true)
	return c.CloseErr
}

func (c *Conn) Closed() bool      { return c.closed.Load() }
func (c *Conn) ExecCalls() int64  { return c.execs.Load() }
func (c *Conn) QueryCalls() int64 { return c.queries.Load() }

// Rows walks scripted rows and scans values into typed destinations.
type Rows struct {
	rows [][]any
	i    int
	err  error
}

func (r *Rows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.i == 0 || r.i > len(r.rows) {
		return errors.New("pooltest: Scan called without Next")
	}
	row := r.rows[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("pooltest: scan %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rows) Err() error   { return r.err }
func (r *Rows) Close() error { return nil }

func assign(dest, src any) error {
	switch d := dest.(type) {
	case *string:
		v, ok := src.(string)
		if !ok {
			return fmt.Errorf("pooltest: cannot scan %T into *string", src)
		}
		*d = v
	case *int64:
		switch v := src.(type) {
		case int64:
			*d = v
		case int:
			*d = int64(v)
		default:
			return fmt.Errorf("pooltest: cannot scan %T into *int64", src)
		}
	case *int:
		switch v := src.(type) {
		case int:
			*d = v
		case int64:
			*d = int(v)
		default:
			return fmt.Errorf("pooltest: cannot scan %T into *int", src)
		}
	case *bool:
		v, ok := src.(bool)
		if !ok {
			return fmt.Errorf("pooltest: cannot scan %T into *bool", src)
		}
		*d = v
	case *float64:
		v, ok := src.(float64)
		if !ok {
			return fmt.Errorf("pooltest: cannot scan %T into *float64", src)
		}
		*d = v
	case *time.Time:
		v, ok := src.(time.Time)
		if !ok {
			return fmt.Errorf("pooltest: cannot scan %T into *time.Time", src)
		}
		*d = v
	case *any:
		*d = src
	default:
		return fmt.Errorf("pooltest: unsupported scan destination %T", dest)
	}
	return nil
}

// Factory counts and records the connections it creates. Configure is
// applied to each new Conn before it is returned.
type Factory struct {
	mu        sync.Mutex
	conns     []*Conn
	nextErr   error
	Configure func(c *Conn)
}

// Fail makes the next factory calls return err until cleared with nil.
func (f *Factory) Fail(err error) {
	f.mu.Lock()
	f.nextErr = err
	f.mu.Unlock()
}

func (f *Factory) New(ctx context.Context) (pool.Conn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	c := &Conn{ID: len(f.conns) + 1}
	if f.Configure != nil {
		f.Configure(c)
	}
	f.conns = append(f.conns, c)
	return c, nil
}

func (f *Factory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

func (f *Factory) Conn(i int) *Conn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conns[i]
}
