package loader

import (
	"fmt"
	"sort"

	"agebulk/graphdata"
)

// endpointIDsKey is the age_params key used to stage the id set for one
// endpoint-existence check. It is reused sequentially for the from-side and
// to-side checks of a single edge label; each staging call overwrites it.
const endpointIDsKey = "ids_check"

// endpointCheckCypher emits the live-graph existence check for a set of ids
// against vertexLabel. It never interpolates the ids themselves — they
// travel through age_params under endpointIDsKey, read back by the
// get_staged_ids() helper — only vertexLabel, schemaName and graphName appear
// in the generated text.
func endpointCheckCypher(vertexLabel, schemaName, graphName string) string {
	cypher := fmt.Sprintf(
		"UNWIND %s.get_staged_ids() AS cid MATCH (v:%s) WHERE v.id = cid RETURN v.id AS id",
		schemaName, vertexLabel,
	)
	return fmt.Sprintf("SELECT * FROM cypher('%s', $$ %s $$) AS (id agtype)", graphName, cypher)
}

// filterByEndpoints is the pure transformation the spec's §9 re-architecture
// requires: it never mutates records in place. It returns a new slice
// containing only the records whose from/to ids are both present in the
// supplied known-id sets, along with the number dropped and up-to-10-item
// detail warnings per side.
func filterByEndpoints(records []graphdata.Record, fromLabel, toLabel string, knownFrom, knownTo map[string]bool) (filtered []graphdata.Record, dropped int, warnings []string) {
	var missingFrom, missingTo []string

	filtered = make([]graphdata.Record, 0, len(records))
	for _, rec := range records {
		from, _ := rec.From()
		to, _ := rec.To()

		okFrom := knownFrom[from]
		okTo := knownTo[to]

		if okFrom && okTo {
			filtered = append(filtered, rec)
			continue
		}
		dropped++
		if !okFrom {
			missingFrom = append(missingFrom, from)
		}
		if !okTo {
			missingTo = append(missingTo, to)
		}
	}

	if w := detailWarning(fromLabel, missingFrom); w != "" {
		warnings = append(warnings, w)
	}
	if w := detailWarning(toLabel, missingTo); w != "" {
		warnings = append(warnings, w)
	}

	return filtered, dropped, warnings
}

func detailWarning(label string, missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	unique := dedupe(missing)
	shown := unique
	truncated := false
	if len(shown) > 10 {
		shown = shown[:10]
		truncated = true
	}
	msg := fmt.Sprintf("%d edge(s) reference missing %s vertex id(s): %v", len(missing), label, shown)
	if truncated {
		msg += " (truncated)"
	}
	return msg
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// uniqueIDs returns the deduplicated from/to id sets appearing in records.
func uniqueIDs(records []graphdata.Record) (from, to []string) {
	fromSeen := make(map[string]bool)
	toSeen := make(map[string]bool)
	for _, rec := range records {
		if f, ok := rec.From(); ok && f != "" && !fromSeen[f] {
			fromSeen[f] = true
			from = append(from, f)
		}
		if t, ok := rec.To(); ok && t != "" && !toSeen[t] {
			toSeen[t] = true
			to = append(to, t)
		}
	}
	return from, to
}
