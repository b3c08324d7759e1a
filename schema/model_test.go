package schema

import "testing"

func sampleSchema() *Schema {
	return &Schema{
		Version: "1",
		Vertices: map[string]*VertexDef{
			"Person": {
				Properties: []PropDef{
					{Name: "name", Type: PropString, Required: true},
					{Name: "age", Type: PropNumber},
				},
			},
			"Company": {
				Properties: []PropDef{
					{Name: "name", Type: PropString, Required: true},
					{Name: "founded", Type: PropNumber},
				},
			},
		},
		Edges: map[string]*EdgeDef{
			"WORKS_AT": {
				FromLabel: "Person",
				ToLabel:   "Company",
				Properties: []PropDef{
					{Name: "since", Type: PropNumber},
					{Name: "position", Type: PropString},
				},
			},
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	s := sampleSchema()
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.KnownVertexLabels()["Person"] {
		t.Fatalf("expected Person to be known")
	}
	if s.VertexDef("Missing") != nil {
		t.Fatalf("expected nil for unknown label")
	}
}

func TestSchemaValidateRejectsUnknownEdgeEndpoint(t *testing.T) {
	s := sampleSchema()
	s.Edges["BAD"] = &EdgeDef{FromLabel: "Person", ToLabel: "Nonexistent"}

	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for unknown edge endpoint")
	}
}

func TestSchemaValidateRejectsReservedPropertyName(t *testing.T) {
	s := sampleSchema()
	s.Vertices["Person"].Properties = append(s.Vertices["Person"].Properties, PropDef{Name: "id", Type: PropString})

	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for reserved property name")
	}
}

func TestVertexDefRequiredProperties(t *testing.T) {
	s := sampleSchema()
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := s.Vertices["Person"].RequiredProperties()
	if !req["id"] || !req["name"] {
		t.Fatalf("expected id and name required, got %v", req)
	}
	if req["age"] {
		t.Fatalf("age should not be required")
	}
}

func TestEdgeDefPropertyNamesPreservesOrder(t *testing.T) {
	s := sampleSchema()
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := s.Edges["WORKS_AT"].PropertyNames()
	if len(names) != 2 || names[0] != "since" || names[1] != "position" {
		t.Fatalf("expected [since position], got %v", names)
	}
}
