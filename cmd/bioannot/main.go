package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/sirupsen/logrus"

	"github.com/biodatafuse/bioannot/internal/annotate"
	"github.com/biodatafuse/bioannot/internal/annotator/bgee"
	"github.com/biodatafuse/bioannot/internal/annotator/minerva"
	"github.com/biodatafuse/bioannot/internal/annotator/wikipathways"
	"github.com/biodatafuse/bioannot/internal/bridgedb"
	"github.com/biodatafuse/bioannot/internal/config"
	"github.com/biodatafuse/bioannot/internal/docs"
	"github.com/biodatafuse/bioannot/internal/gitclient"
	"github.com/biodatafuse/bioannot/internal/store"
)

var (
	// Version is the application version.
	// It is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
)

// Options contains program options that can be set via command-line flags or
// environment variables.
type Options struct {
	Input      string
	OutputDir  string
	Sources    string
	RootDir    string
	ConfigFile string
	GitURL     string
	GitRef     string
	Timeout    time.Duration
	MinervaMap string
	Verbose    bool
}

func gitClientAuthFromEnv() *gitclient.Auth {
	user := os.Getenv("BIOANNOT_GIT_USER")
	if user == "" {
		return nil
	}
	pass := os.Getenv("BIOANNOT_GIT_PASSWORD")
	return &gitclient.Auth{
		Username: user,
		Password: pass,
	}
}

func main() {
	if len(os.Args) < 2 {
		// Default to "annotate"
		runAnnotate(os.Args[1:])
		return
	}

	switch os.Args[1] {
	case "gen-docs":
		runGenDocs(os.Args[2:])
	case "annotate":
		runAnnotate(os.Args[2:])
	default:
		// Also default to annotate if the argument looks like a flag
		if strings.HasPrefix(os.Args[1], "-") {
			runAnnotate(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command %q. Available commands: annotate, gen-docs\n", os.Args[1])
		os.Exit(1)
	}
}

func addStoreFlags(fs *flag.FlagSet, opts *Options) {
	fs.StringVar(&opts.RootDir, "root-dir", ".", "Root directory of the local query/config store")
	fs.StringVar(&opts.ConfigFile, "config", "bioannot.yml", "Path to the configuration YAML file (relative to git root or local -root-dir)")
	fs.StringVar(&opts.GitURL, "git-url", "", "URL of a git repository to use as the query/config store")
	fs.StringVar(&opts.GitRef, "git-ref", "", "Git ref (branch or tag) to read query/config files from")
}

func runAnnotate(args []string) {
	var opts Options
	fs := flag.NewFlagSet("bioannot annotate", flag.ExitOnError)
	fs.StringVar(&opts.Input, "input", "", "Path to the BridgeDb identifier table (.tsv or .csv)")
	fs.StringVar(&opts.OutputDir, "output", "out", "Directory to write annotations.json and metadata.json to")
	fs.StringVar(&opts.Sources, "sources", "wikipathways,bgee,minerva", "Comma-separated list of datasources to query")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "Per-request HTTP timeout (overrides the configured value if set)")
	fs.StringVar(&opts.MinervaMap, "minerva-map", "", "Name of the MINERVA disease map to query (overrides the configured value if set)")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	addStoreFlags(fs, &opts)

	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("BIOANNOT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}
	if opts.Input == "" {
		fmt.Fprintln(os.Stderr, "Missing required flag -input")
		os.Exit(1)
	}
	log.Printf("bioannot %s using config from flags/env vars: %+v", Version, opts)

	logger := logrus.New()
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	st := createStore(opts)
	cfg := loadConfig(st, opts)

	table := readTable(opts.Input)
	log.Printf("Read %d identifier rows from %s", table.Len(), opts.Input)

	annotators := buildAnnotators(opts.Sources, cfg, st, logger)

	ctx := context.Background()
	annotations := map[string]any{}
	var metadata []*annotate.Metadata
	for _, a := range annotators {
		log.Printf("Annotating with %s", a.Name())
		res, err := a.Annotate(ctx, table)
		if err != nil {
			log.Fatalf("Annotation with %s failed: %v", a.Name(), err)
		}
		annotations[a.Name()] = res.Table.Rows
		metadata = append(metadata, res.Metadata)
	}

	writeJSON(filepath.Join(opts.OutputDir, "annotations.json"), annotations)
	writeJSON(filepath.Join(opts.OutputDir, "metadata.json"), metadata)
	log.Printf("Wrote results for %d datasources to %s", len(annotators), opts.OutputDir)
}

func runGenDocs(args []string) {
	var opts Options
	fs := flag.NewFlagSet("bioannot gen-docs", flag.ExitOnError)
	var outputDir string
	fs.StringVar(&outputDir, "out-dir", "docs", "Output directory for the documentation")
	addStoreFlags(fs, &opts)

	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("BIOANNOT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}

	st := createStore(opts)
	cfg := loadConfig(st, opts)

	gen := docs.NewGenerator([]docs.Datasource{
		wikipathways.Describe(cfg.Sources.WikiPathways),
		bgee.Describe(cfg.Sources.Bgee),
		minerva.Describe(cfg.Sources.Minerva),
	})
	if err := gen.Generate(outputDir); err != nil {
		log.Fatalf("Failed to generate documentation: %v", err)
	}
	log.Printf("Documentation generated in %q", outputDir)
}

// createStore returns the store to read query templates and configuration
// from: a git repository if -git-url is set, the local -root-dir otherwise.
func createStore(opts Options) store.Store {
	if opts.GitURL == "" {
		st, err := store.NewDiskStore(opts.RootDir).Store("")
		if err != nil {
			log.Fatalf("Failed to open local store: %v", err)
		}
		return st
	}

	log.Printf("Retrieving query/config store from git URL %s", opts.GitURL)
	client, err := gitclient.NewClient(opts.GitURL, gitClientAuthFromEnv())
	if err != nil {
		log.Fatalf("Failed to retrieve git repo: %v", err)
	}
	ref := opts.GitRef
	if ref == "" {
		ref, err = client.DefaultBranch()
		if err != nil {
			log.Fatalf("No git-ref specified and no default branch found: %v", err)
		}
	}
	st, err := store.NewGitSource(client, ref).Store("")
	if err != nil {
		log.Fatalf("Failed to open git store at ref %q: %v", ref, err)
	}
	return st
}

func loadConfig(st store.Store, opts Options) *config.Bundle {
	cfg, err := config.Load(st, opts.ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("No config file %q, using built-in defaults", opts.ConfigFile)
			cfg = config.Default()
		} else {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if opts.Timeout > 0 {
		cfg.Query.Timeout = opts.Timeout
	}
	if opts.MinervaMap != "" {
		cfg.Sources.Minerva.Map = opts.MinervaMap
	}
	return cfg
}

func readTable(path string) *bridgedb.Table {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open identifier table: %v", err)
	}
	defer f.Close()

	var table *bridgedb.Table
	if strings.HasSuffix(path, ".csv") {
		table, err = bridgedb.ReadCSV(f)
	} else {
		table, err = bridgedb.ReadTSV(f)
	}
	if err != nil {
		log.Fatalf("Failed to read identifier table %s: %v", path, err)
	}
	return table
}

func buildAnnotators(sources string, cfg *config.Bundle, st store.Store, logger logrus.FieldLogger) []annotate.Annotator {
	var annotators []annotate.Annotator
	for _, name := range strings.Split(sources, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "wikipathways":
			annotators = append(annotators, wikipathways.New(cfg.Sources.WikiPathways, cfg.Query, st, logger))
		case "bgee":
			annotators = append(annotators, bgee.New(cfg.Sources.Bgee, cfg.Query, st, logger))
		case "minerva":
			annotators = append(annotators, minerva.New(cfg.Sources.Minerva, cfg.Query, logger))
		case "":
			// Ignore empty entries from trailing commas.
		default:
			log.Fatalf("Unknown datasource %q. Available: wikipathways, bgee, minerva", name)
		}
	}
	return annotators
}

func writeJSON(path string, v any) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, bs, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
}
