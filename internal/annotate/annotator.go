package annotate

import (
	"context"

	"github.com/biodatafuse/bioannot/internal/bridgedb"
)

// Result is the uniform output of an annotator invocation: the input table
// with the datasource's list-valued annotation column attached, and the
// metadata record for the run.
type Result struct {
	Table    *bridgedb.AnnotatedTable
	Metadata *Metadata
}

// Empty returns the result of a run that was skipped because the remote
// endpoint was unavailable: an empty table and an empty metadata record.
func Empty() *Result {
	return &Result{
		Table:    bridgedb.NewAnnotated(&bridgedb.Table{}),
		Metadata: &Metadata{},
	}
}

// Annotator is the contract every datasource annotator implements. Annotate
// runs the full pipeline for one datasource: probe the endpoint, fetch its
// version marker, issue the batched queries, flatten the responses and merge
// them onto the namespace-filtered input table.
//
// An unavailable endpoint is not an error: implementations log a warning and
// return Empty(). A query failure mid-run aborts the whole annotation and is
// returned as an error; there is no per-batch isolation and no retry.
type Annotator interface {
	// Name returns the datasource label, which is also the annotation
	// column name in the merged output.
	Name() string
	Annotate(ctx context.Context, table *bridgedb.Table) (*Result, error)
}
