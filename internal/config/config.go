// Package config holds the serialized application configuration. Endpoint
// URLs and query limits are explicit configuration rather than package-level
// constants so that tests can point annotators at mock servers.
package config

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/biodatafuse/bioannot/internal/store"
)

// Public endpoints of the supported datasources.
const (
	DefaultWikiPathwaysEndpoint = "https://sparql.wikipathways.org/sparql"
	DefaultBgeeEndpoint         = "https://www.bgee.org/sparql/"
	DefaultMinervaEndpoint      = "https://minerva-net.lcsb.uni.lu/api"
)

type WikiPathwaysConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type BgeeConfig struct {
	Endpoint string `yaml:"endpoint"`
	// AnatomicalEntities restricts expression queries to these anatomical
	// entity names. Queries are issued per entity.
	AnatomicalEntities []string `yaml:"anatomicalEntities"`
}

type MinervaConfig struct {
	Endpoint string `yaml:"endpoint"`
	// Map is the name of the MINERVA disease map to query,
	// e.g. "COVID19 Disease Map".
	Map string `yaml:"map"`
	// InputType filters map elements by bio-entity type
	// ("Protein", "Gene", "RNA", ...).
	InputType string `yaml:"inputType"`
	// Elements/Reactions control which component listings are fetched per
	// model.
	Elements  bool `yaml:"elements"`
	Reactions bool `yaml:"reactions"`
}

type SourcesConfig struct {
	WikiPathways WikiPathwaysConfig `yaml:"wikipathways"`
	Bgee         BgeeConfig         `yaml:"bgee"`
	Minerva      MinervaConfig      `yaml:"minerva"`
}

type QueryConfig struct {
	// BatchSize is the maximum number of identifiers per remote query.
	BatchSize int `yaml:"batchSize"`
	// Timeout is the per-request HTTP timeout. Zero means no client-side
	// timeout (transport default only).
	Timeout time.Duration `yaml:"timeout"`
}

// Bundle is the umbrella struct for the serialized application configuration
// YAML.
type Bundle struct {
	Sources SourcesConfig `yaml:"sources"`
	Query   QueryConfig   `yaml:"query"`
}

// Default returns the built-in configuration: public endpoints, batch size
// 25, the upstream anatomical entity list and the COVID19 disease map.
func Default() *Bundle {
	return &Bundle{
		Sources: SourcesConfig{
			WikiPathways: WikiPathwaysConfig{
				Endpoint: DefaultWikiPathwaysEndpoint,
			},
			Bgee: BgeeConfig{
				Endpoint:           DefaultBgeeEndpoint,
				AnatomicalEntities: defaultAnatomicalEntities(),
			},
			Minerva: MinervaConfig{
				Endpoint:  DefaultMinervaEndpoint,
				Map:       "COVID19 Disease Map",
				InputType: "Protein",
				Elements:  true,
				Reactions: true,
			},
		},
		Query: QueryConfig{
			BatchSize: 25,
		},
	}
}

// Load reads the configuration YAML at configPath from the store and decodes
// it over the defaults, so absent keys keep their default values. Unknown
// keys are an error.
func Load(st store.Store, configPath string) (*Bundle, error) {
	bs, err := st.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", configPath, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true)
	bundle := Default()
	if err := dec.Decode(bundle); err != nil {
		return nil, fmt.Errorf("invalid configuration YAML in %q: %v", configPath, err)
	}
	if bundle.Query.BatchSize < 1 {
		return nil, fmt.Errorf("invalid configuration in %q: query.batchSize must be positive", configPath)
	}
	return bundle, nil
}

func defaultAnatomicalEntities() []string {
	return []string{
		"blood",
		"bone marrow",
		"brain",
		"breast",
		"cardiovascular system",
		"digestive system",
		"heart",
		"immune organ",
		"kidney",
		"liver",
		"lung",
		"nervous system",
		"pancreas",
		"placenta",
		"reproductive system",
		"respiratory system",
		"skeletal system",
	}
}
