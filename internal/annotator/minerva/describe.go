package minerva

import (
	"github.com/biodatafuse/bioannot/internal/config"
	"github.com/biodatafuse/bioannot/internal/docs"
)

// Describe returns the documentation descriptor for this datasource.
func Describe(cfg config.MinervaConfig) docs.Datasource {
	return docs.Datasource{
		Name:           Name,
		InputNamespace: InputNamespace,
		Endpoint:       cfg.Endpoint,
		Description: `[MINERVA](https://minerva.pages.uni.lu/doc/) is a platform for
hosting interactive disease maps. This annotator downloads the elements of the
configured map (default: ` + "`" + cfg.Map + "`" + `) over the REST API and matches them
against the input identifiers by gene symbol.`,
		Columns: []docs.Column{
			{Name: "pathwayId", Kind: "number", Description: "MINERVA model (submap) identifier"},
			{Name: "pathwayLabel", Kind: "string", Description: "Name of the submap"},
			{Name: "pathwayGeneCount", Kind: "number", Description: "Number of symbol-carrying elements of the configured type on the submap"},
		},
	}
}
