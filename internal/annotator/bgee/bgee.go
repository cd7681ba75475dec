// Package bgee annotates genes with tissue expression levels from the Bgee
// gene expression database, via its public SPARQL endpoint.
package bgee

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/biodatafuse/bioannot/internal/annotate"
	"github.com/biodatafuse/bioannot/internal/bridgedb"
	"github.com/biodatafuse/bioannot/internal/config"
	"github.com/biodatafuse/bioannot/internal/sparql"
	"github.com/biodatafuse/bioannot/internal/store"
)

// Name is the datasource label and annotation column name.
const Name = "Bgee"

// InputNamespace is the identifier namespace this datasource is queried with.
const InputNamespace = "Ensembl"

//go:embed queries/bgee-get-last-modified.rq
var lastModifiedQuery string

//go:embed queries/bgee-genes-tissues-expression-level.rq
var expressionQuery string

var outputColumns = []string{
	"anatomical_entity_id",
	"anatomical_entity_name",
	"developmental_stage_id",
	"developmental_stage_name",
	"expression_level",
	"confidence_level_id",
}

var outputSchema = annotate.Schema{
	"target":                   {Kind: annotate.String},
	"anatomical_entity_id":     {Kind: annotate.String, Prefixes: []string{"UBERON", "CL"}},
	"anatomical_entity_name":   {Kind: annotate.String},
	"developmental_stage_id":   {Kind: annotate.String, Prefixes: []string{"HsapDv", "UBERON"}},
	"developmental_stage_name": {Kind: annotate.String},
	"expression_level":         {Kind: annotate.Number},
	"confidence_level_id":      {Kind: annotate.String, Prefixes: []string{"CIO"}},
}

// Annotator queries the Bgee SPARQL endpoint for expression levels of a
// batch of Ensembl genes, one query per configured anatomical entity.
type Annotator struct {
	client             *sparql.Client
	batchSize          int
	anatomicalEntities []string
	logger             logrus.FieldLogger
	lastModifiedQuery  string
	expressionQuery    string
}

// New creates a Bgee annotator. st may be nil; if given, query template
// overrides are read from queries/ in the store.
func New(cfg config.BgeeConfig, query config.QueryConfig, st store.Store, logger logrus.FieldLogger) *Annotator {
	return &Annotator{
		client:             sparql.NewClient(cfg.Endpoint, query.Timeout, logger),
		batchSize:          query.BatchSize,
		anatomicalEntities: cfg.AnatomicalEntities,
		logger:             logger,
		lastModifiedQuery:  annotate.LoadQuery(st, "queries/bgee-get-last-modified.rq", lastModifiedQuery),
		expressionQuery:    annotate.LoadQuery(st, "queries/bgee-genes-tissues-expression-level.rq", expressionQuery),
	}
}

func (a *Annotator) Name() string {
	return Name
}

// Version fetches the dct:modified date of the Bgee RDF dataset. Bgee does
// not report a release version over SPARQL, so the last-modified date serves
// as the version marker.
func (a *Annotator) Version(ctx context.Context) (map[string]string, error) {
	resp, err := a.client.Select(ctx, a.lastModifiedQuery)
	if err != nil {
		return nil, err
	}
	modified := ""
	if b := resp.Results.Bindings; len(b) > 0 {
		modified = b[0]["date_modified"].Value
	}
	return map[string]string{"source_version": modified}, nil
}

// Annotate runs the Bgee pipeline on the identifier table: one query per
// (identifier batch, anatomical entity), strictly sequential.
func (a *Annotator) Annotate(ctx context.Context, table *bridgedb.Table) (*annotate.Result, error) {
	if !a.client.Probe(ctx, a.lastModifiedQuery) {
		a.logger.WithFields(logrus.Fields{
			"datasource": Name,
			"endpoint":   a.client.Endpoint(),
		}).Warn("SPARQL endpoint is not available, unable to retrieve data")
		return annotate.Empty(), nil
	}

	version, err := a.Version(ctx)
	if err != nil {
		return nil, err
	}

	data := table.InNamespace(InputNamespace)
	batches := annotate.BatchIdentifiers(data.Targets(), a.batchSize)

	start := time.Now()
	var records []bridgedb.Annotation
	queried := 0
	for _, batch := range batches {
		queried += len(batch)
		for _, entity := range a.anatomicalEntities {
			query, err := sparql.Substitute(a.expressionQuery, map[string]string{
				"gene_list":          annotate.QuoteBatch(batch),
				"anat_entities_list": fmt.Sprintf("%q", entity),
			})
			if err != nil {
				return nil, err
			}
			resp, err := a.client.Select(ctx, query)
			if err != nil {
				// A failed query aborts the whole annotation.
				return nil, err
			}
			records = append(records, sparql.Flatten(resp, sparql.FlattenOpts{
				Rename:   map[string]string{"ensembl_id": "target"},
				Required: []string{"target", "anatomical_entity_id"},
				Numeric:  []string{"expression_level"},
				URIs:     []string{"anatomical_entity_id", "developmental_stage_id", "confidence_level_id"},
				DedupKey: []string{"target", "anatomical_entity_id", "developmental_stage_id"},
			}, a.logger)...)
		}
	}

	if len(records) == 0 {
		// No expression rows anywhere: an empty table, but keep the
		// version marker in the metadata.
		return &annotate.Result{
			Table:    bridgedb.NewAnnotated(&bridgedb.Table{}),
			Metadata: &annotate.Metadata{Datasource: Name, Metadata: version},
		}, nil
	}

	outputSchema.Check(records, Name, a.logger)

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
