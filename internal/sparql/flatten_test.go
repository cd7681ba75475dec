package sparql

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/biodatafuse/bioannot/internal/bridgedb"
)

func lit(v string) Term { return Term{Type: "literal", Value: v} }
func uri(v string) Term { return Term{Type: "uri", Value: v} }

func TestFlatten(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	resp := &Response{
		Results: Results{Bindings: []Binding{
			{
				"ensembl_id":           lit("ENSG00000141510"),
				"anatomical_entity_id": uri("http://purl.obolibrary.org/obo/UBERON_0002107"),
				"expression_level":     lit("93.4"),
			},
		}},
	}
	got := Flatten(resp, FlattenOpts{
		Rename:   map[string]string{"ensembl_id": "target"},
		Required: []string{"target", "anatomical_entity_id"},
		Numeric:  []string{"expression_level"},
		URIs:     []string{"anatomical_entity_id"},
	}, logger)

	want := []bridgedb.Annotation{{
		"target":               "ENSG00000141510",
		"anatomical_entity_id": "UBERON_0002107",
		"expression_level":     93.4,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flattened records mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_DropsIncompleteAndDuplicateRecords(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	resp := &Response{
		Results: Results{Bindings: []Binding{
			{"gene_id": lit("g1"), "pathway_id": lit("WP179")},
			{"gene_id": lit("g1"), "pathway_id": lit("WP179")}, // duplicate
			{"gene_id": lit("g2")},                             // missing pathway_id
			{"gene_id": lit("g1"), "pathway_id": lit("WP4963")},
		}},
	}
	got := Flatten(resp, FlattenOpts{
		Rename:   map[string]string{"gene_id": "target"},
		Required: []string{"target", "pathway_id"},
		DedupKey: []string{"target", "pathway_id"},
	}, logger)

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(got), got)
	}
}

func TestFlatten_WarnsAndDropsNonNumeric(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	resp := &Response{
		Results: Results{Bindings: []Binding{
			{"expression_level": lit("not-a-number")},
			{"expression_level": lit("42")},
		}},
	}
	got := Flatten(resp, FlattenOpts{Numeric: []string{"expression_level"}}, logger)

	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0]["expression_level"] != 42.0 {
		t.Errorf("expression_level = %v, want 42", got[0]["expression_level"])
	}
	if len(hook.Entries) != 1 {
		t.Errorf("got %d warnings, want 1", len(hook.Entries))
	}
}

func TestFlatten_URITailOnPlainValue(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	resp := &Response{
		Results: Results{Bindings: []Binding{
			{"stage": lit("HsapDv_0000087")},
			{"stage": uri("http://example.org/entity/12345")},
		}},
	}
	got := Flatten(resp, FlattenOpts{URIs: []string{"stage"}}, logger)

	if got[0]["stage"] != "HsapDv_0000087" {
		t.Errorf("plain value was altered: %v", got[0]["stage"])
	}
	if got[1]["stage"] != "12345" {
		t.Errorf("URI value = %v, want 12345", got[1]["stage"])
	}
}
