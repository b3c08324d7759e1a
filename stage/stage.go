// Package stage implements the ParameterStager: writing a batch of records
// into the session-scoped age_params table the Cypher templates read back
// via get_vertices/get_edges.
package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"agebulk/errs"
	"agebulk/executor"
)

// Stager upserts batches into age_params against a single connection/
// transaction pair. age_params is session-local, so the same Connection and
// TransactionHandle used here must be the ones that later execute the
// matching Cypher template.
type Stager struct {
	conn executor.Connection
}

// New binds a Stager to the connection it will stage against.
func New(conn executor.Connection) *Stager {
	return &Stager{conn: conn}
}

// Stage upserts {key, json(value)} into age_params. It is idempotent: a
// re-run with the same key and value produces the same row, last write wins.
func (s *Stager) Stage(ctx context.Context, tx executor.TransactionHandle, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errs.Wrap(errs.KindStageFailed, "staging", fmt.Errorf("encode %s: %w", key, err)).WithAux("key", key)
	}

	const upsert = `
		INSERT INTO age_params (key, value) VALUES ($1, $2::json)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	res, err := s.conn.ExecuteSQL(ctx, tx, upsert, key, string(payload))
	if err != nil {
		return errs.Wrap(errs.KindStageFailed, "staging", err).WithAux("key", key).WithStatement(upsert)
	}
	if res.Rows != nil {
		res.Rows.Close()
	}
	return nil
}

// VertexKey is the age_params key for a vertex label's staged batch.
func VertexKey(label string) string { return "vertex_" + label }

// EdgeKey is the age_params key for an edge label's staged batch.
func EdgeKey(label string) string { return "edge_" + label }
