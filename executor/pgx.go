package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool wraps a pgxpool.Pool as a Pool.
type PgxPool struct {
	db *pgxpool.Pool
}

// NewPgxPool wraps an already-configured pool.
func NewPgxPool(db *pgxpool.Pool) *PgxPool {
	return &PgxPool{db: db}
}

// GetConnection acquires a pooled connection and runs the DB-side session
// initialization the loader requires before any staging or Cypher execution:
// loading the graph extension and pointing search_path at its catalog.
func (p *PgxPool) GetConnection(ctx context.Context) (Connection, error) {
	conn, err := p.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("executor: acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, `LOAD 'age'`); err != nil && !alreadyLoaded(err) {
		conn.Release()
		return nil, fmt.Errorf("executor: load age extension: %w", err)
	}
	if _, err := conn.Exec(ctx, `SET search_path = ag_catalog, "$user", public`); err != nil {
		conn.Release()
		return nil, fmt.Errorf("executor: set search_path: %w", err)
	}

	return &PgxConnection{conn: conn}, nil
}

// ReleaseConnection returns conn to the pool.
func (p *PgxPool) ReleaseConnection(conn Connection) {
	if c, ok := conn.(*PgxConnection); ok {
		c.conn.Release()
	}
}

func alreadyLoaded(err error) bool {
	return strings.Contains(err.Error(), "already loaded") || strings.Contains(err.Error(), "already exists")
}

// PgxConnection is a single acquired connection.
type PgxConnection struct {
	conn *pgxpool.Conn
}

// BeginTransaction starts a pgx transaction at READ COMMITTED and applies a
// per-transaction statement_timeout via SET LOCAL. pgx transactions carry no
// server-visible ID of their own, so a UUID is minted here and threaded
// through log lines and error context.
func (c *PgxConnection) BeginTransaction(ctx context.Context, opts TxOptions) (TransactionHandle, error) {
	tx, err := c.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("executor: begin transaction: %w", err)
	}

	id := uuid.NewString()

	if opts.TimeoutMs > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", opts.TimeoutMs)
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("executor: set statement_timeout: %w", err)
		}
	}

	return &pgxTx{tx: tx, id: id}, nil
}

// ExecuteSQL runs stmt against tx (or the bare connection when tx is nil)
// and returns an open Rows cursor for every statement, DML included; the
// caller must close it. RowCount is not filled in.
func (c *PgxConnection) ExecuteSQL(ctx context.Context, tx TransactionHandle, stmt string, params ...any) (Result, error) {
	exec := sqlExecer(c.conn, tx)

	rows, err := exec.Query(ctx, stmt, params...)
	if err != nil {
		return Result{}, fmt.Errorf("executor: execute: %w", err)
	}
	return Result{Rows: &pgxRows{rows: rows}}, nil
}

type sqlExecutor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func sqlExecer(conn *pgxpool.Conn, tx TransactionHandle) sqlExecutor {
	if t, ok := tx.(*pgxTx); ok && t != nil {
		return t.tx
	}
	return conn.Conn()
}

type pgxTx struct {
	tx pgx.Tx
	id string
}

func (t *pgxTx) ID() string { return t.id }

func (t *pgxTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("executor: commit: %w", err)
	}
	return nil
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("executor: rollback: %w", err)
	}
	return nil
}

type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Err() error             { return r.rows.Err() }
func (r *pgxRows) Close()                 { r.rows.Close() }
