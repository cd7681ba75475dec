package bridgedb

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Annotation is one flattened record returned by a remote datasource,
// mapping output column names to plain string or numeric values.
type Annotation map[string]any

// JoinKey selects which input-table column an annotator joins its results on.
type JoinKey int

const (
	// JoinOnTarget joins on the resolved identifier (the "target" column).
	JoinOnTarget JoinKey = iota
	// JoinOnIdentifier joins on the original input identifier.
	JoinOnIdentifier
)

// AnnotatedRow is an input row together with the list-valued annotation
// columns attached by the annotators that ran on the table.
type AnnotatedRow struct {
	Row
	// Annotations maps a datasource column name (e.g. "WikiPathways") to
	// the list of records matched for this row. Rows without matches carry
	// an empty (never nil) list for every attached datasource.
	Annotations map[string][]Annotation
}

// AnnotatedTable is the merged output of one or more annotators: one row per
// input row, in input order.
type AnnotatedTable struct {
	Rows []AnnotatedRow
	// Columns lists the datasource column names in the order they were
	// attached.
	Columns []string
}

// NewAnnotated wraps an identifier table for annotation. The input table is
// not modified.
func NewAnnotated(t *Table) *AnnotatedTable {
	a := &AnnotatedTable{Rows: make([]AnnotatedRow, len(t.Rows))}
	for i, row := range t.Rows {
		a.Rows[i] = AnnotatedRow{
			Row:         row,
			Annotations: map[string][]Annotation{},
		}
	}
	return a
}

// Collapse left-joins flattened datasource records onto the table and stores
// them under colName. Each input row receives the projection onto cols of
// every record whose key column matches the row's join key; rows without a
// match receive an empty list. Every input row appears exactly once in the
// result, whatever the number of matches.
func (a *AnnotatedTable) Collapse(records []Annotation, key JoinKey, keyCol string, cols []string, colName string) {
	byKey := map[string][]Annotation{}
	for _, rec := range records {
		kv, ok := rec[keyCol].(string)
		if !ok {
			continue
		}
		proj := Annotation{}
		for _, col := range cols {
			if v, ok := rec[col]; ok {
				proj[col] = v
			} else {
				proj[col] = nil
			}
		}
		byKey[kv] = append(byKey[kv], proj)
	}
	a.Columns = append(a.Columns, colName)
	for i := range a.Rows {
		row := &a.Rows[i]
		k := row.Target
		if key == JoinOnIdentifier {
			k = row.Identifier
		}
		matches := byKey[k]
		if matches == nil {
			matches = []Annotation{}
		}
		row.Annotations[colName] = matches
	}
}

// MarshalJSON renders the row as a flat object using the BridgeDb column
// names, with one list-valued field per attached datasource.
func (r AnnotatedRow) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		ColIdentifier:       r.Identifier,
		ColIdentifierSource: r.IdentifierSource,
		ColTarget:           r.Target,
		ColTargetSource:     r.TargetSource,
	}
	for col, recs := range r.Annotations {
		obj[col] = recs
	}
	bs, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal annotated row")
	}
	return bs, nil
}
