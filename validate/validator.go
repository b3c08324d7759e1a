// Package validate implements structural and type validation of a graph-data
// payload against a schema, producing a ValidationReport. Validation is pure
// and does no I/O.
package validate

import (
	"encoding/json"
	"fmt"
	"math"

	"agebulk/graphdata"
	"agebulk/schema"
)

// Validator validates payloads against a fixed schema.
type Validator struct {
	schema *schema.Schema
}

// New creates a Validator bound to s.
func New(s *schema.Schema) *Validator {
	return &Validator{schema: s}
}

// Validate runs the full rule set from the spec (presence, per-label
// structural/type checks, duplicate-ID detection, and best-effort endpoint
// cross-checks against vertex IDs present in the same payload) and returns a
// deterministic report.
func (v *Validator) Validate(g *graphdata.GraphData) Report {
	var r Report
	r.Valid = true

	if !g.HasVertices {
		r.addError(ValidationError{Kind: "missing_vertices", Entity: "payload", Message: "payload is missing a vertices block"})
	}
	if !g.HasEdges {
		r.addWarning("payload is missing an edges block")
	}

	vertexIDs := make(map[string]map[string]bool, len(g.VertexLabels))

	for _, label := range g.VertexLabels {
		records := g.Vertices[label]
		ids := v.validateVertexLabel(&r, label, records)
		vertexIDs[label] = ids
	}

	for _, label := range g.EdgeLabels {
		records := g.Edges[label]
		v.validateEdgeLabel(&r, label, records, vertexIDs)
	}

	return r
}

func (v *Validator) validateVertexLabel(r *Report, label string, records []graphdata.Record) map[string]bool {
	def := v.schema.VertexDef(label)
	if def == nil {
		r.addError(ValidationError{Kind: "unknown_vertex_label", Entity: "vertex", Label: label, Message: fmt.Sprintf("unknown vertex label %q", label)})
		return nil
	}

	required := def.RequiredProperties()
	seenIDs := make(map[string]bool, len(records))
	ids := make(map[string]bool, len(records))
	duplicates := 0

	for i, rec := range records {
		id, hasID := rec.ID()
		if !hasID || id == "" {
			r.addError(ValidationError{Kind: "missing_id", Entity: "vertex", Label: label, Index: i, Message: "Missing required property: id"})
		} else {
			ids[id] = true
			if seenIDs[id] {
				r.addWarning(fmt.Sprintf("Duplicate vertex ID: %s in type %s", id, label))
				duplicates++
			}
			seenIDs[id] = true
		}

		for prop := range required {
			if prop == "id" {
				continue
			}
			val, present := rec[prop]
			if !present || val == nil {
				r.addError(ValidationError{Kind: "missing_required", Entity: "vertex", Label: label, Index: i, Property: prop, Message: fmt.Sprintf("Missing required property: %s", prop)})
			}
		}

		for prop, val := range rec {
			if prop == "id" {
				continue
			}
			checkProperty(r, "vertex", label, i, prop, val, def.Lookup)
		}
	}

	if duplicates > 0 {
		r.addWarning(fmt.Sprintf("%d duplicate vertex ID(s) found in type %s", duplicates, label))
	}

	return ids
}

func (v *Validator) validateEdgeLabel(r *Report, label string, records []graphdata.Record, vertexIDs map[string]map[string]bool) {
	def := v.schema.EdgeDef(label)
	if def == nil {
		r.addError(ValidationError{Kind: "unknown_edge_label", Entity: "edge", Label: label, Message: fmt.Sprintf("unknown edge label %q", label)})
		return
	}

	required := def.RequiredProperties()
	fromKnownIDs, haveFromBlock := vertexIDs[def.FromLabel]
	toKnownIDs, haveToBlock := vertexIDs[def.ToLabel]

	for i, rec := range records {
		from, hasFrom := rec.From()
		to, hasTo := rec.To()
		if !hasFrom || from == "" {
			r.addError(ValidationError{Kind: "missing_endpoint", Entity: "edge", Label: label, Index: i, Property: "from", Message: "Missing required property: from"})
		}
		if !hasTo || to == "" {
			r.addError(ValidationError{Kind: "missing_endpoint", Entity: "edge", Label: label, Index: i, Property: "to", Message: "Missing required property: to"})
		}

		if hasFrom && from != "" && haveFromBlock && !fromKnownIDs[from] {
			r.addWarning(fmt.Sprintf("Edge %s at index %d: from %q does not match any staged %s vertex", label, i, from, def.FromLabel))
		}
		if hasTo && to != "" && haveToBlock && !toKnownIDs[to] {
			r.addWarning(fmt.Sprintf("Edge %s at index %d: to %q does not match any staged %s vertex", label, i, to, def.ToLabel))
		}

		for prop := range required {
			val, present := rec[prop]
			if !present || val == nil {
				r.addError(ValidationError{Kind: "missing_required", Entity: "edge", Label: label, Index: i, Property: prop, Message: fmt.Sprintf("Missing required property: %s", prop)})
			}
		}

		for prop, val := range rec {
			if prop == "from" || prop == "to" {
				continue
			}
			checkProperty(r, "edge", label, i, prop, val, def.Lookup)
		}
	}
}

type lookupFunc func(name string) (schema.PropDef, bool)

func checkProperty(r *Report, entity, label string, index int, prop string, val any, lookup lookupFunc) {
	def, declared := lookup(prop)
	if !declared {
		r.addWarning(fmt.Sprintf("%s %s at index %d: unknown property %q", entity, label, index, prop))
		return
	}

	if val == nil {
		return
	}

	if !matchesType(val, def.Type) {
		r.addError(ValidationError{
			Kind:     "type_mismatch",
			Entity:   entity,
			Label:    label,
			Index:    index,
			Property: prop,
			Message:  fmt.Sprintf("property %s expected type %s", prop, def.Type),
		})
	}
}

func matchesType(val any, t schema.PropType) bool {
	switch t {
	case schema.PropString:
		_, ok := val.(string)
		return ok
	case schema.PropNumber:
		return isFiniteNumber(val)
	case schema.PropBoolean:
		_, ok := val.(bool)
		return ok
	case schema.PropObject:
		_, ok := val.(map[string]any)
		return ok
	case schema.PropArray:
		_, ok := val.([]any)
		return ok
	case schema.PropAny, schema.PropCustom:
		return true
	default:
		return true
	}
}

func isFiniteNumber(val any) bool {
	switch n := val.(type) {
	case float64:
		return !math.IsNaN(n) && !math.IsInf(n, 0)
	case json.Number:
		f, err := n.Float64()
		return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return false
	}
}
