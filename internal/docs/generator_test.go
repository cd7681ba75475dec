package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator([]Datasource{
		{
			Name:           "WikiPathways",
			Description:    "A *community-curated* pathway database.",
			InputNamespace: "Ensembl",
			Endpoint:       "https://sparql.wikipathways.org/sparql",
			Columns: []Column{
				{Name: "pathway_id", Kind: "string", Description: "Pathway identifier"},
			},
			Queries: map[string]string{
				"wikipathways-metadata.rq": "SELECT ?title WHERE { }",
			},
		},
	})
	if err := g.Generate(dir); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("index.html not written: %v", err)
	}
	if !strings.Contains(string(index), `href="WikiPathways.html"`) {
		t.Errorf("index.html does not link to the datasource page:\n%s", index)
	}

	page, err := os.ReadFile(filepath.Join(dir, "WikiPathways.html"))
	if err != nil {
		t.Fatalf("datasource page not written: %v", err)
	}
	for _, want := range []string{
		"<em>community-curated</em>", // markdown was rendered
		"pathway_id",
		"wikipathways-metadata.rq",
		"SELECT ?title",
	} {
		if !strings.Contains(string(page), want) {
			t.Errorf("datasource page is missing %q", want)
		}
	}
}
