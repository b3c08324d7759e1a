package executor

import (
	"context"
	"fmt"
)

// FakeRow is a single canned row backing Scan.
type FakeRow struct {
	Values []any
	Err    error
}

// Scan copies the canned values into dest, positionally.
func (r FakeRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(dest) != len(r.Values) {
		return fmt.Errorf("executor: fake row scan arity mismatch: want %d, got %d", len(r.Values), len(dest))
	}
	for i, v := range r.Values {
		if err := assign(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

// FakeRows is a canned, forward-only result set.
type FakeRows struct {
	Rows []FakeRow
	pos  int
}

func (r *FakeRows) Next() bool {
	if r.pos >= len(r.Rows) {
		return false
	}
	r.pos++
	return true
}

func (r *FakeRows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.Rows) {
		return fmt.Errorf("executor: fake rows Scan called without Next")
	}
	return r.Rows[r.pos-1].Scan(dest...)
}

func (r *FakeRows) Err() error { return nil }
func (r *FakeRows) Close()     {}

// Call records one ExecuteSQL invocation for assertions.
type Call struct {
	Stmt   string
	Params []any
}

// Handler lets a test script canned responses for a statement.
type Handler func(stmt string, params []any) (Result, error)

// FakeConnection is a hand-written QueryExecutor.Connection test double.
// DATA-DOG/go-sqlmock is not used here: it speaks database/sql, while this
// module's executor contract speaks pgx's native Rows/Tx types directly, so
// a sqlmock-backed fake would need its own adapter layer with no upside over
// scripting Result values straight against this interface.
type FakeConnection struct {
	Handler Handler
	Calls   []Call
	Begun   []TxOptions

	beginErr error
	txIDSeq  int
}

// NewFakeConnection creates a connection whose ExecuteSQL calls are answered
// by handler.
func NewFakeConnection(handler Handler) *FakeConnection {
	return &FakeConnection{Handler: handler}
}

func (c *FakeConnection) BeginTransaction(ctx context.Context, opts TxOptions) (TransactionHandle, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	c.Begun = append(c.Begun, opts)
	c.txIDSeq++
	return &FakeTx{id: fmt.Sprintf("fake-tx-%d", c.txIDSeq)}, nil
}

func (c *FakeConnection) ExecuteSQL(ctx context.Context, tx TransactionHandle, stmt string, params ...any) (Result, error) {
	c.Calls = append(c.Calls, Call{Stmt: stmt, Params: params})
	if c.Handler == nil {
		return Result{Rows: &FakeRows{}}, nil
	}
	return c.Handler(stmt, params)
}

// FailBeginTransaction makes subsequent BeginTransaction calls return err.
func (c *FakeConnection) FailBeginTransaction(err error) {
	c.beginErr = err
}

// FakeTx is a hand-written TransactionHandle test double.
type FakeTx struct {
	id          string
	Committed   bool
	RolledBack  bool
	CommitErr   error
	RollbackErr error
}

func (t *FakeTx) ID() string { return t.id }

func (t *FakeTx) Commit(ctx context.Context) error {
	t.Committed = true
	return t.CommitErr
}

func (t *FakeTx) Rollback(ctx context.Context) error {
	t.RolledBack = true
	return t.RollbackErr
}

// FakePool hands out a fixed sequence of connections, one per GetConnection
// call, cycling back to the last one once exhausted.
type FakePool struct {
	Conns    []*FakeConnection
	Released []Connection

	getErr error
	idx    int
}

// NewFakePool wraps conns for GetConnection to hand out in order.
func NewFakePool(conns ...*FakeConnection) *FakePool {
	return &FakePool{Conns: conns}
}

func (p *FakePool) GetConnection(ctx context.Context) (Connection, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	if len(p.Conns) == 0 {
		return nil, fmt.Errorf("executor: fake pool has no connections configured")
	}
	c := p.Conns[p.idx]
	if p.idx < len(p.Conns)-1 {
		p.idx++
	}
	return c, nil
}

func (p *FakePool) ReleaseConnection(conn Connection) {
	p.Released = append(p.Released, conn)
}

// FailGetConnection makes subsequent GetConnection calls return err.
func (p *FakePool) FailGetConnection(err error) {
	p.getErr = err
}

func assign(dest any, v any) error {
	switch d := dest.(type) {
	case *int64:
		switch n := v.(type) {
		case int64:
			*d = n
		case int:
			*d = int64(n)
		default:
			return fmt.Errorf("executor: cannot assign %T into *int64", v)
		}
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("executor: cannot assign %T into *string", v)
		}
		*d = s
	case *any:
		*d = v
	default:
		return fmt.Errorf("executor: unsupported Scan destination %T", dest)
	}
	return nil
}
