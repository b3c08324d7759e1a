// Package cyphergen emits the Cypher statements the loader executes to
// bulk-create vertices and edges from a staged batch. Templates never
// interpolate record data: only labels, property names, and the graph/schema
// name ever appear in the generated text, since record data travels
// exclusively through the age_params staging table.
package cyphergen

import (
	"fmt"
	"strings"

	"agebulk/errs"
	"agebulk/schema"
)

// Options controls which semantically-equivalent template form the
// generator emits. The defaults match spec.md's stated defaults.
type Options struct {
	// DirectReference emits a direct field reference (v.<prop>) for optional
	// properties instead of the default null-preserving conditional mapping.
	// Both forms produce the same result when the property is absent; they
	// differ only in how that is expressed in Cypher.
	DirectReference bool

	// IndexHints emits the edge MATCH clauses as
	// `MATCH (a:<Label>) WHERE a.id = e.from` instead of the default
	// embedded-property `MATCH (a:<Label> {id: e.from})` form.
	IndexHints bool

	// SchemaName qualifies the get_vertices/get_edges helper functions
	// (e.g. "public"). Defaults to "public" when empty.
	SchemaName string
}

func (o Options) schemaName() string {
	if o.SchemaName == "" {
		return "public"
	}
	return o.SchemaName
}

// Generator emits deterministic Cypher statements against a fixed schema.
type Generator struct {
	schema *schema.Schema
	opts   Options
}

// New creates a Generator bound to s, using opts for template-form choices.
func New(s *schema.Schema, opts Options) *Generator {
	return &Generator{schema: s, opts: opts}
}

// EmitVertexCreate emits the statement that reads the staged vertex_<label>
// batch via get_vertices and creates one vertex per staged record.
func (g *Generator) EmitVertexCreate(label, graphName string) (string, error) {
	def := g.schema.VertexDef(label)
	if def == nil {
		return "", errs.New(errs.KindSchemaUnknownLabel, "cyphergen", fmt.Sprintf("unknown vertex label %q", label)).WithLabel(label)
	}

	props := g.vertexPropertyAssignments(def)
	propList := "id: v.id"
	if len(props) > 0 {
		propList += ", " + strings.Join(props, ", ")
	}

	cypher := fmt.Sprintf(
		"UNWIND %s.get_vertices('%s') AS v CREATE (n:%s {%s}) RETURN count(n) AS created_vertices",
		g.opts.schemaName(), label, label, propList,
	)
	return wrapDispatch(graphName, cypher, "n agtype"), nil
}

// EmitEdgeCreate emits the statement that reads the staged edge_<label>
// batch via get_edges, matches both endpoints, and creates one edge per
// staged record.
func (g *Generator) EmitEdgeCreate(label, graphName string) (string, error) {
	def := g.schema.EdgeDef(label)
	if def == nil {
		return "", errs.New(errs.KindSchemaUnknownLabel, "cyphergen", fmt.Sprintf("unknown edge label %q", label)).WithLabel(label)
	}

	fromMatch := g.endpointMatch("a", def.FromLabel, "e.from")
	toMatch := g.endpointMatch("b", def.ToLabel, "e.to")

	props := g.edgePropertyAssignments(def)
	propList := ""
	if len(props) > 0 {
		propList = " {" + strings.Join(props, ", ") + "}"
	}

	cypher := fmt.Sprintf(
		"UNWIND %s.get_edges('%s') AS e %s %s CREATE (a)-[:%s%s]->(b) RETURN count(*) AS created_edges",
		g.opts.schemaName(), label, fromMatch, toMatch, label, propList,
	)
	return wrapDispatch(graphName, cypher, "created_edges agtype"), nil
}

func (g *Generator) endpointMatch(alias, label, ref string) string {
	if g.opts.IndexHints {
		return fmt.Sprintf("MATCH (%s:%s) WHERE %s.id = %s", alias, label, alias, ref)
	}
	return fmt.Sprintf("MATCH (%s:%s {id: %s})", alias, label, ref)
}

func (g *Generator) vertexPropertyAssignments(def *schema.VertexDef) []string {
	return propertyAssignments(def.PropertyNames(), "v", g.opts.DirectReference)
}

func (g *Generator) edgePropertyAssignments(def *schema.EdgeDef) []string {
	return propertyAssignments(def.PropertyNames(), "e", g.opts.DirectReference)
}

// propertyAssignments renders the schema's declared properties in
// declaration order. The null-preserving form (the default) uses a CASE
// expression so an absent record field evaluates to a Cypher null rather
// than erroring; the direct-reference form reads the field straight off the
// staged record, which get_vertices/get_edges are expected to have already
// normalized to null when absent.
func propertyAssignments(names []string, alias string, directReference bool) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if directReference {
			out = append(out, fmt.Sprintf("%s: %s.%s", name, alias, name))
			continue
		}
		out = append(out, fmt.Sprintf(
			"%s: CASE WHEN %s.%s IS NULL THEN NULL ELSE %s.%s END",
			name, alias, name, alias, name,
		))
	}
	return out
}

func wrapDispatch(graphName, cypher, returnCols string) string {
	return fmt.Sprintf("SELECT * FROM cypher('%s', $$ %s $$) AS (%s)", graphName, cypher, returnCols)
}
