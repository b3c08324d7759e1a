// Package graphdata holds the payload types the loader consumes: vertex and
// edge records partitioned by label, read-only from the loader's
// perspective.
package graphdata

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an unordered property bag: a mapping from property name to a
// JSON-decoded value (string, float64, bool, []any, map[string]any, or nil).
type Record map[string]any

// GraphData is the full ingestion payload: vertex and edge records
// partitioned by label. VertexLabels and EdgeLabels preserve the order in
// which labels first appeared in the source payload, since the loader must
// process labels in that order (spec: loader always does all vertices
// before any edges, and within that, payload insertion order per label).
type GraphData struct {
	VertexLabels []string
	Vertices     map[string][]Record
	EdgeLabels   []string
	Edges        map[string][]Record

	// HasVertices/HasEdges distinguish an absent top-level key (validation
	// error for vertices, warning for edges) from a present-but-empty one.
	HasVertices bool
	HasEdges    bool
}

// UnmarshalJSON decodes a GraphData payload, walking the top-level
// "vertices" and "edges" objects token-by-token to record first-seen label
// order — encoding/json's map decoding does not preserve key order, but the
// loader's batching order contract requires it.
func (g *GraphData) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Vertices json.RawMessage `json:"vertices"`
		Edges    json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("graphdata: failed to decode envelope: %w", err)
	}

	g.Vertices = make(map[string][]Record)
	g.Edges = make(map[string][]Record)

	if envelope.Vertices != nil {
		labels, byLabel, err := decodeOrderedLabelBlock(envelope.Vertices)
		if err != nil {
			return fmt.Errorf("graphdata: invalid vertices block: %w", err)
		}
		g.VertexLabels = labels
		g.Vertices = byLabel
		g.HasVertices = true
	}

	if envelope.Edges != nil {
		labels, byLabel, err := decodeOrderedLabelBlock(envelope.Edges)
		if err != nil {
			return fmt.Errorf("graphdata: invalid edges block: %w", err)
		}
		g.EdgeLabels = labels
		g.Edges = byLabel
		g.HasEdges = true
	}

	return nil
}

// decodeOrderedLabelBlock decodes a JSON object of label -> []Record while
// recording the object's key order.
func decodeOrderedLabelBlock(raw json.RawMessage) ([]string, map[string][]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected a JSON object")
	}

	var labels []string
	byLabel := make(map[string][]Record)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		label, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected string label key")
		}

		var records []Record
		if err := dec.Decode(&records); err != nil {
			return nil, nil, fmt.Errorf("label %s: %w", label, err)
		}

		if _, seen := byLabel[label]; !seen {
			labels = append(labels, label)
		}
		byLabel[label] = records
	}

	// consume closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	return labels, byLabel, nil
}

// MarshalJSON re-encodes GraphData's vertex and edge records. Labels are
// written in sorted key order, not VertexLabels/EdgeLabels order, and an
// empty vertices or edges block is omitted, so decoding the output does not
// restore label order or HasVertices/HasEdges.
func (g GraphData) MarshalJSON() ([]byte, error) {
	type wire struct {
		Vertices map[string][]Record `json:"vertices,omitempty"`
		Edges    map[string][]Record `json:"edges,omitempty"`
	}
	return json.Marshal(wire{Vertices: g.Vertices, Edges: g.Edges})
}

// ID returns the record's "id" value coerced to a string, or "" if absent.
// String and numeric IDs are both accepted per the payload contract; numeric
// IDs are compared as their JSON decimal text form.
func (r Record) ID() (string, bool) {
	return r.stringField("id")
}

// From returns the record's "from" endpoint reference as a string.
func (r Record) From() (string, bool) {
	return r.stringField("from")
}

// To returns the record's "to" endpoint reference as a string.
func (r Record) To() (string, bool) {
	return r.stringField("to")
}

func (r Record) stringField(name string) (string, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return formatFloat(t), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
