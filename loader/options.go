package loader

import (
	"agebulk/metrics"
	"agebulk/progress"
)

// LoadOptions configures one Load call. ValidateBeforeLoad and
// CollectWarnings default to true, so they are *bool: a nil pointer takes
// the default, an explicit pointer overrides it (including to false).
type LoadOptions struct {
	// GraphName is the target graph; defaults to DefaultGraphName.
	GraphName string

	// BatchSize is the number of records per batch, per label. Must be >0
	// after normalization; defaults to 1000.
	BatchSize int

	// ValidateBeforeLoad runs the data validator before any DB work.
	// Defaults to true.
	ValidateBeforeLoad *bool

	// ContinueOnError governs only edge-label/edge-batch failures: when
	// true, a failing edge batch is recorded as a warning and loading
	// continues. Defaults to false.
	ContinueOnError bool

	// TransactionTimeoutMs is the SET LOCAL statement_timeout applied to
	// the load's transaction. Defaults to 60000.
	TransactionTimeoutMs int

	// OnProgress receives progress events; nil disables reporting.
	OnProgress progress.Sink

	// CollectWarnings includes warnings in LoadResult. Defaults to true.
	CollectWarnings *bool

	// Debug includes the generated Cypher statement text in progress events.
	Debug bool

	// Metrics, if non-nil, records Prometheus observations for this load.
	Metrics *metrics.Collectors

	// CypherOptions controls which semantically-equivalent Cypher template
	// form the generator emits.
	CypherOptions CypherOptions
}

// CypherOptions mirrors cyphergen.Options so callers don't need to import
// cyphergen directly to configure the loader.
type CypherOptions struct {
	DirectReference bool
	IndexHints      bool
	SchemaName      string
}

// DefaultGraphName is used when LoadOptions.GraphName is empty.
const DefaultGraphName = "agebulk_graph"

// DefaultBatchSize is used when LoadOptions.BatchSize is <= 0.
const DefaultBatchSize = 1000

// DefaultTransactionTimeoutMs is used when LoadOptions.TransactionTimeoutMs
// is <= 0.
const DefaultTransactionTimeoutMs = 60000

// Bool returns a pointer to v, for setting a tri-state LoadOptions field.
func Bool(v bool) *bool { return &v }

// normalized is LoadOptions with every documented default resolved to a
// concrete value, used internally so the rest of the package never has to
// re-check for zero values.
type normalized struct {
	graphName            string
	batchSize            int
	validateBeforeLoad   bool
	continueOnError      bool
	transactionTimeoutMs int
	onProgress           progress.Sink
	collectWarnings      bool
	debug                bool
	metrics              *metrics.Collectors
	cypherOptions        CypherOptions
}

func (o LoadOptions) normalize() normalized {
	n := normalized{
		graphName:            o.GraphName,
		batchSize:            o.BatchSize,
		validateBeforeLoad:   true,
		continueOnError:      o.ContinueOnError,
		transactionTimeoutMs: o.TransactionTimeoutMs,
		onProgress:           o.OnProgress,
		collectWarnings:      true,
		debug:                o.Debug,
		metrics:              o.Metrics,
		cypherOptions:        o.CypherOptions,
	}
	if n.graphName == "" {
		n.graphName = DefaultGraphName
	}
	if n.batchSize <= 0 {
		n.batchSize = DefaultBatchSize
	}
	if n.transactionTimeoutMs <= 0 {
		n.transactionTimeoutMs = DefaultTransactionTimeoutMs
	}
	if o.ValidateBeforeLoad != nil {
		n.validateBeforeLoad = *o.ValidateBeforeLoad
	}
	if o.CollectWarnings != nil {
		n.collectWarnings = *o.CollectWarnings
	}
	return n
}
