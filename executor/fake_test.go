package executor

import (
	"context"
	"testing"
)

func TestFakeConnectionRecordsCalls(t *testing.T) {
	conn := NewFakeConnection(func(stmt string, params []any) (Result, error) {
		return Result{Rows: &FakeRows{Rows: []FakeRow{{Values: []any{int64(3)}}}}}, nil
	})

	ctx := context.Background()
	res, err := conn.ExecuteSQL(ctx, nil, "CREATE (n) RETURN count(n)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Rows.Next() {
		t.Fatalf("expected a row")
	}
	var count int64
	if err := res.Rows.Scan(&count); err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
	if len(conn.Calls) != 1 || conn.Calls[0].Stmt != "CREATE (n) RETURN count(n)" {
		t.Fatalf("expected call recorded, got %+v", conn.Calls)
	}
}

func TestFakePoolHandsOutAndTracksReleases(t *testing.T) {
	c1 := NewFakeConnection(nil)
	pool := NewFakePool(c1)

	ctx := context.Background()
	got, err := pool.GetConnection(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Connection(c1) {
		t.Fatalf("expected c1")
	}
	pool.ReleaseConnection(got)
	if len(pool.Released) != 1 {
		t.Fatalf("expected one released connection")
	}
}

func TestFakeTxCommit(t *testing.T) {
	conn := NewFakeConnection(nil)
	tx, err := conn.BeginTransaction(context.Background(), TxOptions{TimeoutMs: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}
	ft, ok := tx.(*FakeTx)
	if !ok || !ft.Committed {
		t.Fatalf("expected committed fake tx")
	}
}
