package progress

import "testing"

func TestPercentage(t *testing.T) {
	cases := []struct {
		processed, total, want int
	}{
		{0, 0, 0},
		{0, 100, 0},
		{50, 100, 50},
		{100, 100, 100},
		{3, 7, 43},
	}
	for _, c := range cases {
		if got := Percentage(c.processed, c.total); got != c.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", c.processed, c.total, got, c.want)
		}
	}
}

func TestEstimatedRemainingMsUndefinedAtBoundaries(t *testing.T) {
	if got := EstimatedRemainingMs(1000, 0, 10); got != nil {
		t.Fatalf("expected nil when processed=0, got %v", *got)
	}
	if got := EstimatedRemainingMs(1000, 10, 10); got != nil {
		t.Fatalf("expected nil when processed==total, got %v", *got)
	}
}

func TestEstimatedRemainingMsFormula(t *testing.T) {
	got := EstimatedRemainingMs(1000, 2, 10)
	if got == nil {
		t.Fatalf("expected a value")
	}
	// elapsed * (total-processed) / processed = 1000 * 8 / 2 = 4000
	if *got != 4000 {
		t.Fatalf("expected 4000, got %d", *got)
	}
}

func TestMultiFansOutToAllSinks(t *testing.T) {
	var a, b []Event
	sinkA := SinkFunc(func(e Event) { a = append(a, e) })
	sinkB := SinkFunc(func(e Event) { b = append(b, e) })

	m := Multi{sinkA, nil, sinkB}
	m.Report(Event{Phase: PhaseVertices, Label: "Person"})

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected both sinks to receive the event, got a=%d b=%d", len(a), len(b))
	}
}
