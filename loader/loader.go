// Package loader implements the BatchLoader orchestrator: the state machine
// that validates a payload, stages it batch by batch, and drives the
// generated Cypher templates inside a single transaction.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agebulk/cyphergen"
	"agebulk/errs"
	"agebulk/executor"
	"agebulk/graphdata"
	"agebulk/progress"
	"agebulk/schema"
	"agebulk/stage"
	"agebulk/validate"
)

// BatchLoader orchestrates Load calls. Multiple BatchLoader instances (or
// concurrent Load calls on the same one, each acquiring its own connection)
// may run independently since no mutable state is shared between
// invocations beyond the immutable schema.
type BatchLoader struct {
	schema *schema.Schema
	pool   executor.Pool
	log    *zap.Logger
}

// New creates a BatchLoader bound to s and pool. log may be zap.NewNop() if
// the caller doesn't want load-lifecycle logging.
func New(s *schema.Schema, pool executor.Pool, log *zap.Logger) *BatchLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchLoader{schema: s, pool: pool, log: log}
}

// Load validates graph against the bound schema, then streams it into
// opts.GraphName inside one transaction, returning a LoadResult that always
// reports success, counts, warnings, errors, and duration — regardless of
// where in the pipeline a failure occurred. The returned error is reserved
// for programmer errors (nil graph); domain failures are reported through
// the result.
func (l *BatchLoader) Load(ctx context.Context, graph *graphdata.GraphData, opts LoadOptions) (LoadResult, error) {
	if graph == nil {
		return LoadResult{}, fmt.Errorf("loader: graph must not be nil")
	}

	n := opts.normalize()
	n.metrics.IncLoadsInFlight()
	defer n.metrics.DecLoadsInFlight()

	runID := uuid.NewString()
	log := l.log.With(zap.String("run_id", runID))
	start := time.Now()

	run := &loadRun{
		loader: l,
		opts:   n,
		log:    log,
		runID:  runID,
		start:  start,
	}

	result := run.execute(ctx, graph)
	result.DurationMs = time.Since(start).Milliseconds()
	n.metrics.ObserveLoadDuration(time.Since(start).Seconds())

	return result, nil
}

// loadRun holds the per-invocation state threaded through the state
// machine; a fresh one is created on every Load call so no state leaks
// across invocations (the spec calls out a global-startTime bug of exactly
// this shape as something to avoid).
type loadRun struct {
	loader *BatchLoader
	opts   normalized
	log    *zap.Logger
	runID  string
	start  time.Time

	conn executor.Connection
	tx   executor.TransactionHandle
	gen  *cyphergen.Generator
}

func (r *loadRun) elapsedMs() int64 { return time.Since(r.start).Milliseconds() }

func (r *loadRun) report(e progress.Event) {
	e.ElapsedMs = r.elapsedMs()
	if r.opts.onProgress != nil {
		r.opts.onProgress.Report(e)
	}
}

func (r *loadRun) execute(ctx context.Context, graph *graphdata.GraphData) LoadResult {
	var result LoadResult

	if r.opts.validateBeforeLoad {
		report := validate.New(r.loader.schema).Validate(graph)
		if r.opts.collectWarnings {
			result.Warnings = append(result.Warnings, report.Warnings...)
		}
		r.opts.metrics.AddValidationErrors(len(report.Errors))
		if !report.Valid {
			for _, e := range report.FormattedErrors() {
				result.addError(fmt.Sprintf("validation_failed: %s", e))
			}
			r.report(progress.Event{
				Phase: progress.PhaseValidation,
				Error: &progress.EventError{Message: "payload failed validation", Type: string(errs.KindValidationFailed), Recoverable: false},
			})
			r.log.Error("validation failed", zap.Int("error_count", len(report.Errors)))
			result.Success = false
			return result
		}
	}

	r.gen = cyphergen.New(r.loader.schema, cyphergen.Options{
		DirectReference: r.opts.cypherOptions.DirectReference,
		IndexHints:      r.opts.cypherOptions.IndexHints,
		SchemaName:      r.opts.cypherOptions.SchemaName,
	})

	conn, err := r.loader.pool.GetConnection(ctx)
	if err != nil {
		result.addError(errs.Wrap(errs.KindConnectionFailed, "setup", err).Error())
		r.log.Error("failed to acquire connection", zap.Error(err))
		result.Success = false
		return result
	}
	r.conn = conn
	defer r.loader.pool.ReleaseConnection(conn)

	tx, err := conn.BeginTransaction(ctx, executor.TxOptions{TimeoutMs: r.opts.transactionTimeoutMs})
	if err != nil {
		result.addError(errs.Wrap(errs.KindSetupFailed, "setup", err).Error())
		r.log.Error("failed to begin transaction", zap.Error(err))
		result.Success = false
		return result
	}
	r.tx = tx
	r.log = r.log.With(zap.String("tx_id", tx.ID()))

	if fatal := r.loadVertices(ctx, graph, &result); fatal != nil {
		return r.rollback(ctx, &result, fatal)
	}

	if fatal := r.loadEdges(ctx, graph, &result); fatal != nil {
		return r.rollback(ctx, &result, fatal)
	}

	if err := tx.Commit(ctx); err != nil {
		return r.rollback(ctx, &result, errs.Wrap(errs.KindCommitFailed, "committing", err))
	}

	r.log.Info("load committed",
		zap.Int("vertex_count", result.VertexCount),
		zap.Int("edge_count", result.EdgeCount),
	)
	result.Success = true
	return result
}

func (r *loadRun) rollback(ctx context.Context, result *LoadResult, cause error) LoadResult {
	result.addError(cause.Error())
	if err := r.tx.Rollback(ctx); err != nil {
		result.addError(errs.Wrap(errs.KindRollbackFailed, "rollback", err).Error())
		r.log.Error("rollback failed", zap.Error(err), zap.Error(cause))
	} else {
		r.log.Warn("load rolled back", zap.Error(cause))
	}
	result.Success = false
	return *result
}

func (r *loadRun) loadVertices(ctx context.Context, graph *graphdata.GraphData, result *LoadResult) error {
	stager := stage.New(r.conn)

	for _, label := range graph.VertexLabels {
		def := r.loader.schema.VertexDef(label)
		if def == nil {
			result.addWarning(fmt.Sprintf("unknown vertex label %q, skipped", label), r.opts.collectWarnings)
			continue
		}

		records := graph.Vertices[label]
		batches := partition(records, r.opts.batchSize)
		total := len(records)
		processed := 0

		stmt, err := r.gen.EmitVertexCreate(label, r.opts.graphName)
		if err != nil {
			return err
		}

		for i, batch := range batches {
			batchNumber := i + 1

			if err := stager.Stage(ctx, r.tx, stage.VertexKey(label), toMaps(batch)); err != nil {
				return errs.Wrap(errs.KindStageFailed, "vertices", err).WithLabel(label).WithBatch(i)
			}

			created, err := r.executeCount(ctx, stmt, "created_vertices")
			if err != nil {
				return errs.Wrap(errs.KindExecuteFailed, "vertices", err).WithLabel(label).WithBatch(i).WithStatement(stmt)
			}

			result.VertexCount += created
			processed += len(batch)
			r.opts.metrics.ObserveVertexBatch(label, created)

			var batchWarnings []string
			if created < len(batch) {
				w := fmt.Sprintf("Only %d of %d vertices of type %s were created in batch %d/%d", created, len(batch), label, batchNumber, len(batches))
				batchWarnings = append(batchWarnings, w)
				result.addWarning(w, r.opts.collectWarnings)
			}

			r.report(progress.Event{
				Phase:        progress.PhaseVertices,
				Label:        label,
				Processed:    processed,
				Total:        total,
				Percentage:   progress.Percentage(processed, total),
				BatchNumber:  batchNumber,
				TotalBatches: len(batches),
				EstimatedRemainingMs: progress.EstimatedRemainingMs(r.elapsedMs(), processed, total),
				Warnings:     batchWarnings,
				Statement:    debugStatement(r.opts.debug, stmt),
			})
		}
	}

	return nil
}

func (r *loadRun) loadEdges(ctx context.Context, graph *graphdata.GraphData, result *LoadResult) error {
	stager := stage.New(r.conn)

	for _, label := range graph.EdgeLabels {
		def := r.loader.schema.EdgeDef(label)
		if def == nil {
			result.addWarning(fmt.Sprintf("unknown edge label %q, skipped", label), r.opts.collectWarnings)
			continue
		}

		records := graph.Edges[label]

		filtered, dropped, endpointWarnings, err := r.preValidateEndpoints(ctx, stager, records, def)
		if err != nil {
			return errs.Wrap(errs.KindEndpointCheckFailed, "edges", err).WithLabel(label)
		}
		for _, w := range endpointWarnings {
			result.addWarning(w, r.opts.collectWarnings)
		}
		if dropped > 0 {
			result.addWarning(fmt.Sprintf("dropped %d edge(s) of type %s due to missing endpoints", dropped, label), r.opts.collectWarnings)
		}

		stmt, err := r.gen.EmitEdgeCreate(label, r.opts.graphName)
		if err != nil {
			return err
		}

		batches := partition(filtered, r.opts.batchSize)
		total := len(filtered)
		processed := 0

		for i, batch := range batches {
			batchNumber := i + 1

			batchErr := func() error {
				if err := stager.Stage(ctx, r.tx, stage.EdgeKey(label), toMaps(batch)); err != nil {
					return err
				}
				created, err := r.executeCount(ctx, stmt, "created_edges")
				if err != nil {
					return err
				}
				result.EdgeCount += created
				processed += len(batch)
				r.opts.metrics.ObserveEdgeBatch(label, created)

				var batchWarnings []string
				if created < len(batch) {
					w := fmt.Sprintf("Only %d of %d edges of type %s were created in batch %d/%d", created, len(batch), label, batchNumber, len(batches))
					batchWarnings = append(batchWarnings, w)
					result.addWarning(w, r.opts.collectWarnings)
				}

				r.report(progress.Event{
					Phase:        progress.PhaseEdges,
					Label:        label,
					Processed:    processed,
					Total:        total,
					Percentage:   progress.Percentage(processed, total),
					BatchNumber:  batchNumber,
					TotalBatches: len(batches),
					EstimatedRemainingMs: progress.EstimatedRemainingMs(r.elapsedMs(), processed, total),
					Warnings:     batchWarnings,
					Statement:    debugStatement(r.opts.debug, stmt),
				})
				return nil
			}()

			if batchErr != nil {
				if r.opts.continueOnError {
					w := fmt.Sprintf("edge batch %d/%d of type %s failed: %v", batchNumber, len(batches), label, batchErr)
					result.addWarning(w, r.opts.collectWarnings)
					r.report(progress.Event{
						Phase:       progress.PhaseEdges,
						Label:       label,
						BatchNumber: batchNumber,
						Error:       &progress.EventError{Message: batchErr.Error(), Type: string(errs.KindExecuteFailed), Recoverable: true},
					})
					r.log.Warn("edge batch failed, continuing", zap.String("label", label), zap.Int("batch", batchNumber), zap.Error(batchErr))
					continue
				}
				return errs.Wrap(errs.KindExecuteFailed, "edges", batchErr).WithLabel(label).WithBatch(i).WithStatement(stmt)
			}
		}
	}

	return nil
}

// preValidateEndpoints stages each endpoint side's distinct ids, runs the
// live-graph existence check for each, and returns the pure filtering
// result — it never mutates records in place.
func (r *loadRun) preValidateEndpoints(ctx context.Context, stager *stage.Stager, records []graphdata.Record, def *schema.EdgeDef) ([]graphdata.Record, int, []string, error) {
	fromIDs, toIDs := uniqueIDs(records)

	knownFrom, err := r.staleEndpointCheck(ctx, stager, fromIDs, def.FromLabel)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("from-endpoint check: %w", err)
	}
	knownTo, err := r.staleEndpointCheck(ctx, stager, toIDs, def.ToLabel)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("to-endpoint check: %w", err)
	}

	filtered, dropped, warnings := filterByEndpoints(records, def.FromLabel, def.ToLabel, knownFrom, knownTo)
	return filtered, dropped, warnings, nil
}

func (r *loadRun) staleEndpointCheck(ctx context.Context, stager *stage.Stager, ids []string, label string) (map[string]bool, error) {
	known := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return known, nil
	}

	if err := stager.Stage(ctx, r.tx, endpointIDsKey, ids); err != nil {
		return nil, err
	}

	stmt := endpointCheckCypher(label, r.opts.cypherOptions.schemaName(), r.opts.graphName)
	res, err := r.conn.ExecuteSQL(ctx, r.tx, stmt)
	if err != nil {
		return nil, err
	}
	defer res.Rows.Close()

	for res.Rows.Next() {
		var id any
		if err := res.Rows.Scan(&id); err != nil {
			return nil, err
		}
		known[fmt.Sprintf("%v", id)] = true
	}
	return known, res.Rows.Err()
}

func (r *loadRun) executeCount(ctx context.Context, stmt string, column string) (int, error) {
	res, err := r.conn.ExecuteSQL(ctx, r.tx, stmt)
	if err != nil {
		return 0, err
	}
	defer res.Rows.Close()

	if !res.Rows.Next() {
		return 0, fmt.Errorf("loader: expected one %s row, got none", column)
	}
	var v any
	if err := res.Rows.Scan(&v); err != nil {
		return 0, err
	}
	return parseCount(v)
}

func debugStatement(debug bool, stmt string) string {
	if !debug {
		return ""
	}
	return stmt
}

func (o CypherOptions) schemaName() string {
	if o.SchemaName == "" {
		return "public"
	}
	return o.SchemaName
}
