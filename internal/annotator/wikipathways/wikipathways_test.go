package wikipathways

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biodatafuse/bioannot/internal/bridgedb"
	"github.com/biodatafuse/bioannot/internal/config"
)

const metadataResults = `{
  "head": {"vars": ["title"]},
  "results": {"bindings": [
    {"title": {"type": "literal", "value": "WikiPathways RDF 20240310"}}
  ]}
}`

const pathwayResults = `{
  "head": {"vars": ["gene_id", "pathway_id", "pathway_label", "pathway_gene_count"]},
  "results": {"bindings": [
    {
      "gene_id": {"type": "literal", "value": "ENSG00000141510"},
      "pathway_id": {"type": "literal", "value": "WP179"},
      "pathway_label": {"type": "literal", "value": "Cell Cycle"},
      "pathway_gene_count": {"type": "literal", "value": "121"}
    }
  ]}
}`

func newTestServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	queryCount := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.PostForm.Get("query")
		if strings.Contains(query, "void:Dataset") {
			w.Write([]byte(metadataResults))
			return
		}
		*queryCount++
		w.Write([]byte(pathwayResults))
	}))
	t.Cleanup(server.Close)
	return server, queryCount
}

func testTable() *bridgedb.Table {
	return &bridgedb.Table{Rows: []bridgedb.Row{
		{Identifier: "TP53", IdentifierSource: "HGNC", Target: "ENSG00000141510", TargetSource: "Ensembl"},
		{Identifier: "BRCA1", IdentifierSource: "HGNC", Target: "ENSG00000012048", TargetSource: "Ensembl"},
		{Identifier: "TP53", IdentifierSource: "HGNC", Target: "7157", TargetSource: "NCBI Gene"},
	}}
}

func TestAnnotate(t *testing.T) {
	server, _ := newTestServer(t)
	logger, _ := logrustest.NewNullLogger()

	a := New(config.WikiPathwaysConfig{Endpoint: server.URL},
		config.QueryConfig{BatchSize: 25}, nil, logger)
	res, err := a.Annotate(context.Background(), testTable())
	require.NoError(t, err)

	// Only the two Ensembl rows survive the namespace filter.
	require.Len(t, res.Table.Rows, 2)

	matched := res.Table.Rows[0].Annotations[Name]
	require.Len(t, matched, 1)
	assert.Equal(t, "WP179", matched[0]["pathway_id"])
	assert.Equal(t, "Cell Cycle", matched[0]["pathway_label"])
	assert.Equal(t, 121.0, matched[0]["pathway_gene_count"])

	unmatched := res.Table.Rows[1].Annotations[Name]
	require.NotNil(t, unmatched)
	assert.Empty(t, unmatched)

	require.NotNil(t, res.Metadata)
	assert.Equal(t, Name, res.Metadata.Datasource)
	assert.Equal(t, "WikiPathways RDF 20240310", res.Metadata.Metadata["source_version"])
	require.NotNil(t, res.Metadata.Query)
	assert.Equal(t, 2, res.Metadata.Query.Size)
	assert.Equal(t, server.URL, res.Metadata.Query.URL)
}

func TestAnnotate_BatchesLargeInputs(t *testing.T) {
	server, queryCount := newTestServer(t)
	logger, _ := logrustest.NewNullLogger()

	table := &bridgedb.Table{}
	for i := 0; i < 60; i++ {
		table.Rows = append(table.Rows, bridgedb.Row{
			Identifier:   fmt.Sprintf("gene-%d", i),
			Target:       fmt.Sprintf("ENSG%011d", i),
			TargetSource: "Ensembl",
		})
	}
	a := New(config.WikiPathwaysConfig{Endpoint: server.URL},
		config.QueryConfig{BatchSize: 25}, nil, logger)
	res, err := a.Annotate(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 3, *queryCount)
	assert.Equal(t, 60, res.Metadata.Query.Size)
}

func TestAnnotate_EndpointDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()
	logger, hook := logrustest.NewNullLogger()

	a := New(config.WikiPathwaysConfig{Endpoint: server.URL},
		config.QueryConfig{BatchSize: 25}, nil, logger)
	res, err := a.Annotate(context.Background(), testTable())
	require.NoError(t, err)
	assert.Empty(t, res.Table.Rows)
	assert.True(t, res.Metadata.Empty())

	var warned bool
	for _, e := range hook.Entries {
		if e.Data["datasource"] == Name {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning about the unavailable endpoint")
}

func TestAnnotate_QueryFailureAborts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if strings.Contains(r.PostForm.Get("query"), "void:Dataset") {
			w.Write([]byte(metadataResults))
			return
		}
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	logger, _ := logrustest.NewNullLogger()

	a := New(config.WikiPathwaysConfig{Endpoint: server.URL},
		config.QueryConfig{BatchSize: 1}, nil, logger)
	_, err := a.Annotate(context.Background(), testTable())
	require.Error(t, err)
	// The first failing batch aborts the run; the second batch is never sent.
	assert.Equal(t, 1, calls)
}
