// Package executor defines the QueryExecutor collaborator the loader drives
// and a pgx/v5-backed implementation of it.
package executor

import "context"

// Rows is a forward-only result set.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Result describes the outcome of executeSQL.
type Result struct {
	Rows     Rows
	RowCount int64
}

// TransactionHandle is a started transaction. ID is a UUID minted at
// begin-time, since pgx transactions carry no server-visible identifier of
// their own; it is threaded through log lines and error context.
type TransactionHandle interface {
	ID() string
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a single pooled connection, on top of which transactions are
// started and SQL is executed.
type Connection interface {
	BeginTransaction(ctx context.Context, opts TxOptions) (TransactionHandle, error)
	ExecuteSQL(ctx context.Context, tx TransactionHandle, stmt string, params ...any) (Result, error)
}

// TxOptions configures a started transaction.
type TxOptions struct {
	// TimeoutMs sets a SET LOCAL statement_timeout for the lifetime of the
	// transaction; 0 means no limit beyond the driver's own defaults.
	TimeoutMs int
}

// Pool hands out and reclaims pooled connections.
type Pool interface {
	GetConnection(ctx context.Context) (Connection, error)
	ReleaseConnection(conn Connection)
}
