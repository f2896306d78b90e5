// Package dbexec is the query-execution layer over db/pool: acquire a
// connection, run one statement, map the results, release. Release is
// guaranteed on every exit path, including statement and mapper failures.
package dbexec

import (
	"context"

	"github.com/atlaspay/go-dbpool/db/pool"
	"github.com/atlaspay/go-dbpool/logger"
)

// Row is the read-only view of the current result row handed to a
// RowMapper. The executor positions the cursor; mappers only Scan and
// never advance it.
type Row interface {
	Scan(dest ...any) error
}

// RowMapper converts the current row into a T. It is called once per
// result row, in result order.
type RowMapper[T any] func(row Row) (T, error)

type Executor struct {
	pool *pool.Pool
	log  logger.Interface
}

type Option func(*Executor)

func WithLogger(l logger.Interface) Option {
	return func(e *Executor) { e.log = l }
}

func New(p *pool.Pool, options ...Option) *Executor {
	e := &Executor{pool: p, log: logger.Nop()}
	for _, o := range options {
		o(e)
	}
	return e
}

// Exec runs a mutation and returns the affected row count. Statement
// errors (malformed SQL, constraint violations, placeholder mismatch)
// surface verbatim and are never retried here.
func (e *Executor) Exec(ctx context.Context, query string, params ...Param) (int64, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer e.pool.Release(conn)

	n, err := conn.Exec(ctx, query, Args(params...)...)
	if err != nil {
		e.log.Debugw("statement failed", "error", err)
		return 0, err
	}
	return n, nil
}

// Count runs a COUNT-shaped query and returns the first column of the
// first row, or 0 when no row comes back.
func (e *Executor) Count(ctx context.Context, query string, params ...Param) (int64, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer e.pool.Release(conn)

	rows, err := conn.Query(ctx, query, Args(params...)...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, rows.Err()
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, err
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return n, nil
}

// Exists runs a COUNT-shaped query and reports whether the count is
// greater than zero.
func (e *Executor) Exists(ctx context.Context, query string, params ...Param) (bool, error) {
	n, err := e.Count(ctx, query, params...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// QueryOne maps the first matching row. The second return is false when
// no row matched. Rows beyond the first are ignored; truncation to one
// row is the documented policy, not an error.
func QueryOne[T any](ctx context.Context, e *Executor, query string, mapper RowMapper[T], params ...Param) (T, bool, error) {
	var zero T

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return zero, false, err
	}
	defer e.pool.Release(conn)

	rows, err := conn.Query(ctx, query, Args(params...)...)
	if err != nil {
		return zero, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return zero, false, rows.Err()
	}
	v, err := mapper(rows)
	if err != nil {
		return zero, false, err
	}
	if err := rows.Err(); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// QueryMany maps every row in cursor order. Zero matching rows yield an
// empty slice, never nil.
func QueryMany[T any](ctx context.Context, e *Executor, query string, mapper RowMapper[T], params ...Param) ([]T, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.pool.Release(conn)

	rows, err := conn.Query(ctx, query, Args(params...)...)
	if err != nil {
		e.log.Debugw("statement failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := mapper(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
