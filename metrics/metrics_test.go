package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func TestObserveVertexBatchIncrementsCounters(t *testing.T) {
	c := NewCollectors()
	c.ObserveVertexBatch("Person", 3)

	var m dto.Metric
	if err := c.RecordsCreatedTotal.WithLabelValues("vertex", "Person").Write(&m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 3 {
		t.Fatalf("expected 3 records created, got %v", got)
	}
}

func TestNilCollectorsAreNoOps(t *testing.T) {
	var c *Collectors
	c.ObserveVertexBatch("Person", 3)
	c.ObserveEdgeBatch("WORKS_AT", 2)
	c.ObserveLoadDuration(1.5)
	c.AddValidationErrors(2)
	c.IncLoadsInFlight()
	c.DecLoadsInFlight()
}
