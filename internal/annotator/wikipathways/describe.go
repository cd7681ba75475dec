package wikipathways

import (
	"github.com/biodatafuse/bioannot/internal/config"
	"github.com/biodatafuse/bioannot/internal/docs"
)

// Describe returns the documentation descriptor for this datasource.
func Describe(cfg config.WikiPathwaysConfig) docs.Datasource {
	return docs.Datasource{
		Name:           Name,
		InputNamespace: InputNamespace,
		Endpoint:       cfg.Endpoint,
		Description: `[WikiPathways](https://www.wikipathways.org) is a community-curated
pathway database. This annotator queries its SPARQL endpoint for the pathways
each gene is part of, including the total number of genes per pathway.`,
		Columns: []docs.Column{
			{Name: "pathway_id", Kind: "string", Description: "WikiPathways pathway identifier (WP prefix)"},
			{Name: "pathway_label", Kind: "string", Description: "Human-readable pathway title"},
			{Name: "pathway_gene_count", Kind: "number", Description: "Number of gene products in the pathway"},
		},
		Queries: map[string]string{
			"wikipathways-metadata.rq":       metadataQuery,
			"wikipathways-genes-pathways.rq": pathwaysQuery,
		},
	}
}
