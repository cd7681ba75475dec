package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/biodatafuse/bioannot/internal/store"
)

func writeConfig(t *testing.T, contents string) store.Store {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bioannot.yml"), []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	st, err := store.NewDiskStore(dir).Store("")
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestLoad_OverridesDefaults(t *testing.T) {
	st := writeConfig(t, `
sources:
  wikipathways:
    endpoint: http://localhost:9999/sparql
  minerva:
    map: Asthma Map
query:
  batchSize: 10
  timeout: 30s
`)
	b, err := Load(st, "bioannot.yml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.Sources.WikiPathways.Endpoint != "http://localhost:9999/sparql" {
		t.Errorf("wikipathways endpoint = %q", b.Sources.WikiPathways.Endpoint)
	}
	if b.Sources.Minerva.Map != "Asthma Map" {
		t.Errorf("minerva map = %q", b.Sources.Minerva.Map)
	}
	// Absent keys keep their defaults.
	if b.Sources.Bgee.Endpoint != DefaultBgeeEndpoint {
		t.Errorf("bgee endpoint = %q, want default", b.Sources.Bgee.Endpoint)
	}
	if len(b.Sources.Bgee.AnatomicalEntities) == 0 {
		t.Error("default anatomical entities list is empty")
	}
	if b.Query.BatchSize != 10 {
		t.Errorf("batchSize = %d, want 10", b.Query.BatchSize)
	}
	if b.Query.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", b.Query.Timeout)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	st := writeConfig(t, "sources:\n  disgenet:\n    endpoint: http://x\n")
	if _, err := Load(st, "bioannot.yml"); err == nil {
		t.Error("Load accepted a config with unknown keys")
	}
}

func TestLoad_RejectsNonPositiveBatchSize(t *testing.T) {
	st := writeConfig(t, "query:\n  batchSize: -1\n")
	_, err := Load(st, "bioannot.yml")
	if err == nil || !strings.Contains(err.Error(), "batchSize") {
		t.Errorf("Load err = %v, want batchSize validation error", err)
	}
}
