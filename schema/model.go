// Package schema holds the declarative graph schema: vertex and edge label
// definitions consumed by validation, Cypher generation, and the loader.
package schema

import "fmt"

// PropType is the declared type of a property value.
type PropType string

const (
	PropString  PropType = "string"
	PropNumber  PropType = "number"
	PropBoolean PropType = "boolean"
	PropObject  PropType = "object"
	PropArray   PropType = "array"
	PropAny     PropType = "any"
	PropCustom  PropType = "custom"
)

// reserved property names carry fixed semantics and can never be declared
// as ordinary properties.
var reserved = map[string]bool{"id": true, "from": true, "to": true}

// PropDef describes a single declared property.
type PropDef struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Type     PropType `yaml:"type" json:"type" validate:"required"`
	Required bool     `yaml:"required" json:"required"`
}

// VertexDef describes a vertex label's declared shape. Properties preserves
// declaration order, which the Cypher generator relies on for deterministic
// output.
type VertexDef struct {
	Properties []PropDef `yaml:"properties" json:"properties" validate:"dive"`

	byName map[string]PropDef
}

// EdgeDef describes an edge label's declared shape and its endpoint labels.
type EdgeDef struct {
	Properties []PropDef `yaml:"properties" json:"properties" validate:"dive"`
	FromLabel  string    `yaml:"from" json:"from" validate:"required"`
	ToLabel    string    `yaml:"to" json:"to" validate:"required"`

	byName map[string]PropDef
}

// Schema is the full graph schema: vertex and edge label definitions.
type Schema struct {
	Version  string                `yaml:"version" json:"version"`
	Vertices map[string]*VertexDef `yaml:"vertices" json:"vertices" validate:"dive"`
	Edges    map[string]*EdgeDef   `yaml:"edges" json:"edges" validate:"dive"`
}

// VertexDef returns the definition for label, or nil if unknown.
func (s *Schema) VertexDef(label string) *VertexDef { return s.Vertices[label] }

// EdgeDef returns the definition for label, or nil if unknown.
func (s *Schema) EdgeDef(label string) *EdgeDef { return s.Edges[label] }

// KnownVertexLabels returns the set of declared vertex labels.
func (s *Schema) KnownVertexLabels() map[string]bool {
	out := make(map[string]bool, len(s.Vertices))
	for l := range s.Vertices {
		out[l] = true
	}
	return out
}

// KnownEdgeLabels returns the set of declared edge labels.
func (s *Schema) KnownEdgeLabels() map[string]bool {
	out := make(map[string]bool, len(s.Edges))
	for l := range s.Edges {
		out[l] = true
	}
	return out
}

// Lookup returns the PropDef for name, if declared.
func (v *VertexDef) Lookup(name string) (PropDef, bool) {
	p, ok := v.byName[name]
	return p, ok
}

// RequiredProperties returns the set of property names that must be present
// on every record, including the implicit "id".
func (v *VertexDef) RequiredProperties() map[string]bool {
	out := map[string]bool{"id": true}
	for _, p := range v.Properties {
		if p.Required {
			out[p.Name] = true
		}
	}
	return out
}

// PropertyNames returns declared, non-reserved property names in
// declaration order.
func (v *VertexDef) PropertyNames() []string {
	names := make([]string, 0, len(v.Properties))
	for _, p := range v.Properties {
		names = append(names, p.Name)
	}
	return names
}

// Lookup returns the PropDef for name, if declared.
func (e *EdgeDef) Lookup(name string) (PropDef, bool) {
	p, ok := e.byName[name]
	return p, ok
}

// RequiredProperties returns the set of property names that must be present
// on every record, excluding "from"/"to" which have their own presence check.
func (e *EdgeDef) RequiredProperties() map[string]bool {
	out := make(map[string]bool)
	for _, p := range e.Properties {
		if p.Required {
			out[p.Name] = true
		}
	}
	return out
}

// PropertyNames returns declared, non-endpoint property names in
// declaration order.
func (e *EdgeDef) PropertyNames() []string {
	names := make([]string, 0, len(e.Properties))
	for _, p := range e.Properties {
		names = append(names, p.Name)
	}
	return names
}

// Validate checks schema-level invariants: unique label names (guaranteed by
// the map representation), non-empty property names, no reserved property
// names declared explicitly, and edge endpoints resolving to known vertex
// labels. It also builds the internal by-name indexes used by Lookup.
func (s *Schema) Validate() error {
	for label, v := range s.Vertices {
		if label == "" {
			return fmt.Errorf("schema: empty vertex label")
		}
		v.byName = make(map[string]PropDef, len(v.Properties))
		for _, p := range v.Properties {
			if p.Name == "" {
				return fmt.Errorf("schema: vertex %s has an empty property name", label)
			}
			if reserved[p.Name] {
				return fmt.Errorf("schema: vertex %s declares reserved property %q", label, p.Name)
			}
			if _, dup := v.byName[p.Name]; dup {
				return fmt.Errorf("schema: vertex %s declares property %q twice", label, p.Name)
			}
			v.byName[p.Name] = p
		}
	}

	for label, e := range s.Edges {
		if label == "" {
			return fmt.Errorf("schema: empty edge label")
		}
		if e.FromLabel == "" || e.ToLabel == "" {
			return fmt.Errorf("schema: edge %s missing from/to", label)
		}
		if _, ok := s.Vertices[e.FromLabel]; !ok {
			return fmt.Errorf("schema: edge %s references unknown from label %q", label, e.FromLabel)
		}
		if _, ok := s.Vertices[e.ToLabel]; !ok {
			return fmt.Errorf("schema: edge %s references unknown to label %q", label, e.ToLabel)
		}
		e.byName = make(map[string]PropDef, len(e.Properties))
		for _, p := range e.Properties {
			if p.Name == "" {
				return fmt.Errorf("schema: edge %s has an empty property name", label)
			}
			if reserved[p.Name] {
				return fmt.Errorf("schema: edge %s declares reserved property %q", label, p.Name)
			}
			if _, dup := e.byName[p.Name]; dup {
				return fmt.Errorf("schema: edge %s declares property %q twice", label, p.Name)
			}
			e.byName[p.Name] = p
		}
	}

	return nil
}
