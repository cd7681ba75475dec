// Package wikipathways annotates genes with their WikiPathways pathways via
// the public WikiPathways SPARQL endpoint.
package wikipathways

import (
	"context"
	_ "embed"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/biodatafuse/bioannot/internal/annotate"
	"github.com/biodatafuse/bioannot/internal/bridgedb"
	"github.com/biodatafuse/bioannot/internal/config"
	"github.com/biodatafuse/bioannot/internal/sparql"
	"github.com/biodatafuse/bioannot/internal/store"
)

// Name is the datasource label and annotation column name.
const Name = "WikiPathways"

// InputNamespace is the identifier namespace this datasource is queried with.
const InputNamespace = "Ensembl"

//go:embed queries/wikipathways-metadata.rq
var metadataQuery string

//go:embed queries/wikipathways-genes-pathways.rq
var pathwaysQuery string

// outputColumns is the declared output order of the annotation records.
var outputColumns = []string{"pathway_id", "pathway_label", "pathway_gene_count"}

var outputSchema = annotate.Schema{
	"target":             {Kind: annotate.String},
	"pathway_id":         {Kind: annotate.String, Prefixes: []string{"WP"}},
	"pathway_label":      {Kind: annotate.String},
	"pathway_gene_count": {Kind: annotate.Number},
}

// Annotator queries the WikiPathways SPARQL endpoint for pathways associated
// with a batch of Ensembl gene identifiers.
type Annotator struct {
	client        *sparql.Client
	batchSize     int
	logger        logrus.FieldLogger
	metadataQuery string
	pathwaysQuery string
}

// New creates a WikiPathways annotator. st may be nil; if given, query
// template overrides are read from queries/ in the store.
func New(cfg config.WikiPathwaysConfig, query config.QueryConfig, st store.Store, logger logrus.FieldLogger) *Annotator {
	return &Annotator{
		client:        sparql.NewClient(cfg.Endpoint, query.Timeout, logger),
		batchSize:     query.BatchSize,
		logger:        logger,
		metadataQuery: annotate.LoadQuery(st, "queries/wikipathways-metadata.rq", metadataQuery),
		pathwaysQuery: annotate.LoadQuery(st, "queries/wikipathways-genes-pathways.rq", pathwaysQuery),
	}
}

func (a *Annotator) Name() string {
	return Name
}

// Version fetches the title of the WikiPathways RDF dataset, which carries
// the release tag.
func (a *Annotator) Version(ctx context.Context) (map[string]string, error) {
	resp, err := a.client.Select(ctx, a.metadataQuery)
	if err != nil {
		return nil, err
	}
	version := ""
	if b := resp.Results.Bindings; len(b) > 0 {
		version = b[0]["title"].Value
	}
	return map[string]string{"source_version": version}, nil
}

// Annotate runs the WikiPathways pipeline on the identifier table.
func (a *Annotator) Annotate(ctx context.Context, table *bridgedb.Table) (*annotate.Result, error) {
	if !a.client.Probe(ctx, a.metadataQuery) {
		a.logger.WithFields(logrus.Fields{
			"datasource": Name,
			"endpoint":   a.client.Endpoint(),
		}).Warn("SPARQL endpoint is not available, unable to retrieve data")
		return annotate.Empty(), nil
	}

	data := table.InNamespace(InputNamespace)
	batches := annotate.BatchIdentifiers(data.Targets(), a.batchSize)

	start := time.Now()
	var records []bridgedb.Annotation
	queried := 0
	for _, batch := range batches {
		queried += len(batch)
		query, err := sparql.Substitute(a.pathwaysQuery, map[string]string{
			"gene_list": annotate.QuoteBatch(batch),
		})
		if err != nil {
			return nil, err
		}
		resp, err := a.client.Select(ctx, query)
		if err != nil {
			// A failed batch aborts the whole annotation.
			return nil, err
		}
		records = append(records, sparql.Flatten(resp, sparql.FlattenOpts{
			Rename:   map[string]string{"gene_id": "target"},
			Required: []string{"target", "pathway_id"},
			Numeric:  []string{"pathway_gene_count"},
			DedupKey: []string{"target", "pathway_id"},
		}, a.logger)...)
	}

	outputSchema.Check(records, Name, a.logger)

	version, err := a.Version(ctx)
	if err != nil {
		return nil, err
	}

	merged := bridgedb.NewAnnotated(data)
	merged.Collapse(records, bridgedb.JoinOnTarget, "target", outputColumns, Name)

	return &annotate.Result{
		Table: merged,
		Metadata: &annotate.Metadata{
			Datasource: Name,
			Metadata:   version,
			Query:      annotate.NewQueryInfo(queried, a.client.Endpoint(), start),
		},
	}, nil
}
