package schema

import (
	"strings"
	"testing"
)

const sampleYAML = `
version: "1"
vertices:
  Person:
    properties:
      - {name: name, type: string, required: true}
      - {name: age, type: number}
  Company:
    properties:
      - {name: name, type: string, required: true}
edges:
  WORKS_AT:
    from: Person
    to: Company
    properties:
      - {name: since, type: number}
`

func TestLoaderLoadReader(t *testing.T) {
	l := NewLoader()
	s, err := l.LoadReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.VertexDef("Person") == nil {
		t.Fatalf("expected Person to be defined")
	}
	if s.EdgeDef("WORKS_AT").FromLabel != "Person" {
		t.Fatalf("expected WORKS_AT.from == Person")
	}
}

func TestLoaderCachesIdenticalSource(t *testing.T) {
	l := NewLoader()
	a, err := l.LoadReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := l.LoadReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical source to return the cached schema pointer")
	}
}

func TestLoaderRejectsUnknownFields(t *testing.T) {
	l := NewLoader()
	bad := sampleYAML + "\nbogus_top_level_key: true\n"
	if _, err := l.LoadReader(strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for unknown top-level field")
	}
}

func TestLoaderRejectsListShapedEndpoint(t *testing.T) {
	l := NewLoader()
	bad := `
version: "1"
vertices:
  Person:
    properties: []
  Company:
    properties: []
edges:
  WORKS_AT:
    from: [Person]
    to: Company
`
	if _, err := l.LoadReader(strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for list-shaped from")
	}
}
