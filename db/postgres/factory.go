package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/atlaspay/go-dbpool/db/pool"
)

// NewFactory returns a pool.Factory that opens one physical pgx
// connection per call. Sizing and reuse are the pool's job, so this
// deliberately uses pgx.Connect rather than pgxpool.
func NewFactory(cfg Config) pool.Factory {
	dsn := cfg.DSN()
	return func(ctx context.Context) (pool.Conn, error) {
		c, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &conn{c: c}, nil
	}
}

type conn struct {
	c *pgx.Conn
}

func (c *conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := c.c.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *conn) Query(ctx context.Context, query string, args ...any) (pool.Rows, error) {
	rows, err := c.c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows: rows}, nil
}

func (c *conn) Ping(ctx context.Context) error  { return c.c.Ping(ctx) }
func (c *conn) Close(ctx context.Context) error { return c.c.Close(ctx) }

// pgxRows adapts pgx.Rows to pool.Rows; pgx's Close returns nothing.
type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Next() bool             { return r.rows.Next() }
func (r pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgxRows) Err() error             { return r.rows.Err() }
func (r pgxRows) Close() error           { r.rows.Close(); return nil }
