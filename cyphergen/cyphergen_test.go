package cyphergen

import (
	"strings"
	"testing"

	"agebulk/errs"
	"agebulk/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := &schema.Schema{
		Version: "1",
		Vertices: map[string]*schema.VertexDef{
			"Person": {Properties: []schema.PropDef{
				{Name: "name", Type: schema.PropString, Required: true},
				{Name: "age", Type: schema.PropNumber},
			}},
			"Company": {Properties: []schema.PropDef{
				{Name: "name", Type: schema.PropString, Required: true},
			}},
		},
		Edges: map[string]*schema.EdgeDef{
			"WORKS_AT": {
				FromLabel:  "Person",
				ToLabel:    "Company",
				Properties: []schema.PropDef{{Name: "since", Type: schema.PropNumber}},
			},
		},
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected schema error: %v", err)
	}
	return s
}

func TestEmitVertexCreateIsDeterministic(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{})

	a, err := g.EmitVertexCreate("Person", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := g.EmitVertexCreate("Person", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("expected byte-equal output, got %q vs %q", a, b)
	}
	if !strings.Contains(a, "cypher('mygraph'") {
		t.Fatalf("expected dispatch on mygraph, got %q", a)
	}
	if !strings.Contains(a, "get_vertices('Person')") {
		t.Fatalf("expected get_vertices('Person'), got %q", a)
	}
	if !strings.Contains(a, "id: v.id") {
		t.Fatalf("expected id: v.id, got %q", a)
	}
}

func TestEmitVertexCreateNullPreservingDefault(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{})

	out, err := g.EmitVertexCreate("Person", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "CASE WHEN v.age IS NULL THEN NULL ELSE v.age END") {
		t.Fatalf("expected null-preserving form for age, got %q", out)
	}
}

func TestEmitVertexCreateDirectReference(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{DirectReference: true})

	out, err := g.EmitVertexCreate("Person", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "age: v.age") {
		t.Fatalf("expected direct reference form, got %q", out)
	}
	if strings.Contains(out, "CASE WHEN") {
		t.Fatalf("did not expect a CASE expression in direct-reference form, got %q", out)
	}
}

func TestEmitVertexCreateUnknownLabel(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{})

	_, err := g.EmitVertexCreate("Bogus", "mygraph")
	if err == nil {
		t.Fatalf("expected an error for unknown label")
	}
	kind, ok := errs.KindOf(err)
	if !ok || kind != errs.KindSchemaUnknownLabel {
		t.Fatalf("expected KindSchemaUnknownLabel, got %v (ok=%v)", kind, ok)
	}
}

func TestEmitEdgeCreateEmbeddedPropertyForm(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{})

	out, err := g.EmitEdgeCreate("WORKS_AT", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "MATCH (a:Person {id: e.from})") {
		t.Fatalf("expected embedded-property MATCH for a, got %q", out)
	}
	if !strings.Contains(out, "MATCH (b:Company {id: e.to})") {
		t.Fatalf("expected embedded-property MATCH for b, got %q", out)
	}
	if !strings.Contains(out, "get_edges('WORKS_AT')") {
		t.Fatalf("expected get_edges('WORKS_AT'), got %q", out)
	}
}

func TestEmitEdgeCreateIndexHintsForm(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{IndexHints: true})

	out, err := g.EmitEdgeCreate("WORKS_AT", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "MATCH (a:Person) WHERE a.id = e.from") {
		t.Fatalf("expected index-hint MATCH for a, got %q", out)
	}
	if !strings.Contains(out, "MATCH (b:Company) WHERE b.id = e.to") {
		t.Fatalf("expected index-hint MATCH for b, got %q", out)
	}
}

func TestEmitEdgeCreateUnknownLabel(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{})

	_, err := g.EmitEdgeCreate("BOGUS_EDGE", "mygraph")
	if err == nil {
		t.Fatalf("expected an error for unknown edge label")
	}
	kind, ok := errs.KindOf(err)
	if !ok || kind != errs.KindSchemaUnknownLabel {
		t.Fatalf("expected KindSchemaUnknownLabel, got %v (ok=%v)", kind, ok)
	}
}

func TestEmitTemplatesNeverInterpolateRecordData(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{})

	out, err := g.EmitVertexCreate("Person", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The template references fields via v.<prop>, never literal record
	// values; there is no quoted scalar anywhere but the label/graph names.
	if strings.Contains(out, "'Alice'") || strings.Contains(out, "'p1'") {
		t.Fatalf("template must not embed record data, got %q", out)
	}
}

func TestSchemaDefaultIsPublic(t *testing.T) {
	s := testSchema(t)
	g := New(s, Options{})
	out, err := g.EmitVertexCreate("Person", "mygraph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "public.get_vertices") {
		t.Fatalf("expected default schema qualifier public, got %q", out)
	}
}
