// Package bridgedb models the identifier mapping table produced by a
// BridgeDb identifier resolution step: one row per (input identifier,
// resolved target identifier, target namespace) triple. Annotators filter
// this table to the namespace they can query and merge their results back
// onto it.
package bridgedb

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// Column names of the BridgeDb export format.
const (
	ColIdentifier       = "identifier"
	ColIdentifierSource = "identifier.source"
	ColTarget           = "target"
	ColTargetSource     = "target.source"
)

// Row is one line of a BridgeDb identifier mapping export.
type Row struct {
	Identifier       string // the original input identifier (e.g. a gene symbol)
	IdentifierSource string // namespace of the input identifier
	Target           string // the resolved identifier used to query external services
	TargetSource     string // namespace of the resolved identifier (e.g. "Ensembl")
}

// Table holds BridgeDb rows in input order.
type Table struct {
	Rows []Row
}

// ReadTSV reads a tab-separated BridgeDb export with a header line.
func ReadTSV(r io.Reader) (*Table, error) {
	return read(r, '\t')
}

// ReadCSV reads a comma-separated BridgeDb export with a header line.
func ReadCSV(r io.Reader) (*Table, error) {
	return read(r, ',')
}

func read(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("identifier table is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read identifier table header")
	}
	idx := map[string]int{}
	for i, col := range header {
		idx[col] = i
	}
	for _, col := range []string{ColIdentifier, ColIdentifierSource, ColTarget, ColTargetSource} {
		if _, ok := idx[col]; !ok {
			return nil, errors.Errorf("identifier table is missing required column %q", col)
		}
	}

	t := &Table{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read identifier table row")
		}
		t.Rows = append(t.Rows, Row{
			Identifier:       rec[idx[ColIdentifier]],
			IdentifierSource: rec[idx[ColIdentifierSource]],
			Target:           rec[idx[ColTarget]],
			TargetSource:     rec[idx[ColTargetSource]],
		})
	}
	return t, nil
}

// InNamespace returns the subset of rows whose target namespace equals ns.
// The result is empty (not nil) if no row matches.
func (t *Table) InNamespace(ns string) *Table {
	sub := &Table{Rows: []Row{}}
	for _, row := range t.Rows {
		if row.TargetSource == ns {
			sub.Rows = append(sub.Rows, row)
		}
	}
	return sub
}

// Targets returns the target column values in row order, including duplicates.
func (t *Table) Targets() []string {
	targets := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		targets[i] = row.Target
	}
	return targets
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
