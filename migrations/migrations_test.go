package migrations

import (
	"strings"
	"testing"
)

func TestEmbeddedMigrationDefinesStagingObjects(t *testing.T) {
	data, err := embedded.ReadFile("sql/0001_init_staging.sql")
	if err != nil {
		t.Fatalf("unexpected error reading embedded migration: %v", err)
	}
	sql := string(data)

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS age_params",
		"FUNCTION get_vertices(label text)",
		"FUNCTION get_edges(label text)",
		"FUNCTION get_staged_ids()",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("expected migration to contain %q", want)
		}
	}
}
