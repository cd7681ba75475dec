package bgee

import (
	"github.com/biodatafuse/bioannot/internal/config"
	"github.com/biodatafuse/bioannot/internal/docs"
)

// Describe returns the documentation descriptor for this datasource.
func Describe(cfg config.BgeeConfig) docs.Datasource {
	return docs.Datasource{
		Name:           Name,
		InputNamespace: InputNamespace,
		Endpoint:       cfg.Endpoint,
		Description: `[Bgee](https://bgee.org) is a database of curated gene expression
data. This annotator queries its SPARQL endpoint for expression levels of each
gene per anatomical entity and developmental stage. One query is issued per
configured anatomical entity.`,
		Columns: []docs.Column{
			{Name: "anatomical_entity_id", Kind: "string", Description: "UBERON or CL identifier of the anatomical entity"},
			{Name: "anatomical_entity_name", Kind: "string", Description: "Label of the anatomical entity"},
			{Name: "developmental_stage_id", Kind: "string", Description: "HsapDv or UBERON identifier of the developmental stage"},
			{Name: "developmental_stage_name", Kind: "string", Description: "Label of the developmental stage"},
			{Name: "expression_level", Kind: "number", Description: "Bgee expression score"},
			{Name: "confidence_level_id", Kind: "string", Description: "CIO identifier of the confidence level"},
		},
		Queries: map[string]string{
			"bgee-get-last-modified.rq":              lastModifiedQuery,
			"bgee-genes-tissues-expression-level.rq": expressionQuery,
		},
	}
}
