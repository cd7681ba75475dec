// Package minerva annotates genes with the pathway maps they appear on in a
// MINERVA disease map, via the MINERVA platform REST API.
package minerva

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/biodatafuse/bioannot/internal/annotate"
	"github.com/biodatafuse/bioannot/internal/bridgedb"
	"github.com/biodatafuse/bioannot/internal/config"
)

// Name is the datasource label and annotation column name.
const Name = "MINERVA"

// InputNamespace is the identifier namespace this datasource is queried with.
// MINERVA elements are matched by gene symbol, which BridgeDb reports under
// the NCBI Gene namespace rows' input identifiers.
const InputNamespace = "NCBI Gene"

// minSupportedVersion is the lowest MINERVA release whose bioEntities
// listings carry the fields read here.
const minSupportedVersion = "15.0.0"

var outputColumns = []string{"pathwayId", "pathwayLabel", "pathwayGeneCount"}

var outputSchema = annotate.Schema{
	"identifier":       {Kind: annotate.String},
	"pathwayId":        {Kind: annotate.Number},
	"pathwayLabel":     {Kind: annotate.String},
	"pathwayGeneCount": {Kind: annotate.Number},
}

// Annotator fetches the elements of one MINERVA disease map and matches them
// against the input identifiers by symbol.
type Annotator struct {
	client *Client
	cfg    config.MinervaConfig
	logger logrus.FieldLogger
}

func New(cfg config.MinervaConfig, query config.QueryConfig, logger logrus.FieldLogger) *Annotator {
	return &Annotator{
		client: NewClient(cfg.Endpoint, query.Timeout, logger),
		cfg:    cfg,
		logger: logger,
	}
}

func (a *Annotator) Name() string {
	return Name
}

// Annotate runs the MINERVA pipeline on the identifier table.
func (a *Annotator) Annotate(ctx context.Context, table *bridgedb.Table) (*annotate.Result, error) {
	if !a.client.Probe(ctx) {
		a.logger.WithFields(logrus.Fields{
			"datasource": Name,
			"endpoint":   a.client.Endpoint(),
		}).Warn("MINERVA API endpoint is not available, unable to retrieve data")
		return annotate.Empty(), nil
	}

	start := time.Now()
	comps, err := a.client.MapComponents(ctx, a.cfg.Map, a.cfg.Elements, a.cfg.Reactions)
	if err != nil {
		return nil, err
	}

	data := table.InNamespace(InputNamespace)
	records := a.elementRecords(comps)
	outputSchema.Check(records, Name, a.logger)

	conf, err := a.client.GetConfiguration(ctx, comps.MapURL)
	if err != nil {
		return nil, err
	}
	a.checkVersion(conf.Version)

	merged := bridgedb.NewAnnotated(data)
	merged.Collapse(records, bridgedb.JoinOnIdentifier, "identifier", outputColumns, Name)

	query := annotate.NewQueryInfo(uniqueTargets(data), comps.MapURL, start)
	query.InputType = InputNamespace
	query.Project = a.cfg.Map

	return &annotate.Result{
		Table: merged,
		Metadata: &annotate.Metadata{
			Datasource: Name,
			Metadata:   map[string]string{"minerva_version": conf.Version},
			Query:      query,
		},
	}, nil
}

// elementRecords turns the map's elements of the configured input type into
// flat annotation records, one per (symbol, model), deduplicated.
func (a *Annotator) elementRecords(comps *MapComponents) []bridgedb.Annotation {
	var records []bridgedb.Annotation
	seen := map[string]bool{}
	for _, model := range comps.Models {
		elements := comps.Elements[model.IDObject]
		geneCount := 0
		for _, el := range elements {
			if el.Type == a.cfg.InputType && el.Symbol != "" {
				geneCount++
			}
		}
		for _, el := range elements {
			if el.Type != a.cfg.InputType || el.Symbol == "" {
				continue
			}
			key := el.Symbol + "\x1f" + strconv.Itoa(model.IDObject)
			if seen[key] {
				continue
			}
			seen[key] = true
			records = append(records, bridgedb.Annotation{
				"identifier":       el.Symbol,
				"pathwayId":        float64(model.IDObject),
				"pathwayLabel":     model.Name,
				"pathwayGeneCount": float64(geneCount),
			})
		}
	}
	return records
}

func (a *Annotator) checkVersion(version string) {
	v := "v" + version
	if !semver.IsValid(v) {
		a.logger.WithFields(logrus.Fields{
			"datasource": Name,
			"version":    version,
		}).Warn("MINERVA instance reports a version that is not a valid semantic version")
		return
	}
	if semver.Compare(v, "v"+minSupportedVersion) < 0 {
		a.logger.WithFields(logrus.Fields{
			"datasource": Name,
			"version":    version,
			"minimum":    minSupportedVersion,
		}).Warn("MINERVA instance is older than the minimum supported release")
	}
}

func uniqueTargets(t *bridgedb.Table) int {
	seen := map[string]bool{}
	for _, row := range t.Rows {
		seen[row.Target] = true
	}
	return len(seen)
}
