// Package dbsql adapts database/sql to the pool's connection contract.
// Each factory call pins one physical connection via (*sql.DB).Conn, so
// the pool keeps exclusive ownership of every handle it lends out.
package dbsql

import (
	"context"
	"database/sql"

	"github.com/atlaspay/go-dbpool/db/pool"
)

// Open opens a database/sql handle and verifies connectivity. The driver
// must be registered by the caller's import.
func Open(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// FactoryFromDB returns a pool.Factory over an opened handle. Set
// db.SetMaxOpenConns at least as high as the pool's MaxSize, otherwise
// database/sql throttles below the pool's ceiling.
func FactoryFromDB(db *sql.DB) pool.Factory {
	return func(ctx context.Context) (pool.Conn, error) {
		c, err := db.Conn(ctx)
		if err != nil {
			return nil, err
		}
		return &conn{c: c}, nil
	}
}

type conn struct {
	c *sql.Conn
}

func (c *conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.c.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *conn) Query(ctx context.Context, query string, args ...any) (pool.Rows, error) {
	rows, err := c.c.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *conn) Ping(ctx context.Context) error  { return c.c.PingContext(ctx) }
func (c *conn) Close(ctx context.Context) error { return c.c.Close() }
