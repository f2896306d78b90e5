package pool

import "context"

// Conn is one live physical database connection. The pool owns every Conn
// it creates; callers borrow one via Acquire and must hand it back with
// Release before dropping the reference. Implementations live in
// db/postgres (pgx) and db/dbsql (database/sql).
type Conn interface {
	// Exec runs a statement that returns no rows and reports the number
	// of rows it affected.
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	// Query runs a statement that returns rows. The caller must close the
	// returned Rows.
	Query(ctx context.Context, query string, args ...any) (Rows, error)

	// Ping is the validity probe: a cheap round trip that fails when the
	// connection is no longer usable.
	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}

// Rows is the interface boundary of a result cursor, the subset shared by
// pgx.Rows and sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Factory opens one physical connection. Errors (unreachable endpoint,
// bad credentials, unknown database) are propagated unchanged to
// Initialize and Acquire callers.
type Factory func(ctx context.Context) (Conn, error)
