package annotate

import (
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/biodatafuse/bioannot/internal/bridgedb"
)

func TestSchemaCheck_WarnsOnUnknownColumn(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	schema := Schema{
		"pathway_id":    {Kind: String, Prefixes: []string{"WP"}},
		"pathway_label": {Kind: String},
	}
	records := []bridgedb.Annotation{
		{"pathway_id": "WP179", "pathway_label": "Cell Cycle", "surprise": "x"},
	}
	schema.Check(records, "WikiPathways", logger)

	if len(hook.Entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(hook.Entries))
	}
	e := hook.LastEntry()
	if e.Level != logrus.WarnLevel {
		t.Errorf("log level = %v, want warning", e.Level)
	}
	if e.Data["column"] != "surprise" {
		t.Errorf("warned about column %v, want surprise", e.Data["column"])
	}
}

func TestSchemaCheck_WarnsOnUnknownPrefix(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	schema := Schema{
		"anatomical_entity_id": {Kind: String, Prefixes: []string{"UBERON", "CL"}},
	}
	records := []bridgedb.Annotation{
		{"anatomical_entity_id": "UBERON_0002107"},
		{"anatomical_entity_id": "FBbt_00003023"},
	}
	schema.Check(records, "Bgee", logger)

	if len(hook.Entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(hook.Entries))
	}
	if hook.LastEntry().Data["value"] != "FBbt_00003023" {
		t.Errorf("warned about value %v, want FBbt_00003023", hook.LastEntry().Data["value"])
	}
}

func TestSchemaCheck_CleanRecordsProduceNoWarnings(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	schema := Schema{
		"pathway_id":         {Kind: String, Prefixes: []string{"WP"}},
		"pathway_gene_count": {Kind: Number},
	}
	records := []bridgedb.Annotation{
		{"pathway_id": "WP179", "pathway_gene_count": float64(12)},
	}
	schema.Check(records, "WikiPathways", logger)

	if len(hook.Entries) != 0 {
		t.Errorf("got %d log entries, want none: %v", len(hook.Entries), hook.Entries)
	}
}
