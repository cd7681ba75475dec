package annotate

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/biodatafuse/bioannot/internal/bridgedb"
)

// ColumnKind declares the value type of an output column after flattening.
type ColumnKind int

const (
	String ColumnKind = iota
	Number
)

// Column declares one expected output column of a datasource.
type Column struct {
	Kind ColumnKind
	// Prefixes, if non-empty, enumerates the accepted value prefixes for
	// identifier-like columns (e.g. "WP" for WikiPathways pathway IDs).
	Prefixes []string
}

// Schema is the declared output schema of a datasource. The schema check
// never fails an annotation: drift in a remote service's response is
// surfaced as warnings only, and processing continues with whatever data is
// present.
type Schema map[string]Column

// Columns returns the declared column names in unspecified order.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s))
	for col := range s {
		cols = append(cols, col)
	}
	return cols
}

// Check warns about records whose columns are not a subset of the schema and
// about enumerated identifier columns carrying values with an unknown prefix.
func (s Schema) Check(records []bridgedb.Annotation, datasource string, logger logrus.FieldLogger) {
	unknownCols := map[string]bool{}
	unknownValues := map[string]bool{}
	for _, rec := range records {
		for col, v := range rec {
			decl, ok := s[col]
			if !ok {
				unknownCols[col] = true
				continue
			}
			if len(decl.Prefixes) == 0 {
				continue
			}
			sv, ok := v.(string)
			if !ok {
				continue
			}
			if !hasAnyPrefix(sv, decl.Prefixes) {
				unknownValues[col + "=" + sv] = true
			}
		}
	}
	for col := range unknownCols {
		logger.WithFields(logrus.Fields{
			"datasource": datasource,
			"column":     col,
		}).Warn("response contains a column not in the declared output schema")
	}
	for cv := range unknownValues {
		col, val, _ := strings.Cut(cv, "=")
		logger.WithFields(logrus.Fields{
			"datasource": datasource,
			"column":     col,
			"value":      val,
		}).Warn("response value does not match any known prefix for this column")
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
