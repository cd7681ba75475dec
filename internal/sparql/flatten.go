package sparql

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/biodatafuse/bioannot/internal/bridgedb"
)

// FlattenOpts declares how a response's bindings map onto flat output
// records.
type FlattenOpts struct {
	// Rename maps response variable names to output column names, applied
	// after unwrapping (e.g. "gene_id" -> "target").
	Rename map[string]string
	// Required lists columns (post-rename) a record must carry; records
	// missing any of them are dropped.
	Required []string
	// Numeric lists columns coerced to float64. Records with an
	// unparseable value are dropped with a warning.
	Numeric []string
	// URIs lists identifier columns whose values are full URIs to be
	// normalized to their trailing path segment.
	URIs []string
	// DedupKey is the composite key under which exact duplicate records
	// are removed, keeping the first occurrence. Empty means no dedup.
	DedupKey []string
}

// Flatten converts a SPARQL response into flat records: each bound term is
// unwrapped to its plain value and the declared renames, requirement checks,
// numeric coercions, URI normalizations and duplicate removal are applied,
// in that order.
func Flatten(resp *Response, opts FlattenOpts, logger logrus.FieldLogger) []bridgedb.Annotation {
	var out []bridgedb.Annotation
	seen := map[string]bool{}
binding:
	for _, b := range resp.Results.Bindings {
		rec := bridgedb.Annotation{}
		for v, term := range b {
			col := v
			if renamed, ok := opts.Rename[v]; ok {
				col = renamed
			}
			rec[col] = term.Value
		}
		for _, col := range opts.Required {
			if _, ok := rec[col]; !ok {
				continue binding
			}
		}
		for _, col := range opts.URIs {
			if s, ok := rec[col].(string); ok {
				rec[col] = uriTail(s)
			}
		}
		for _, col := range opts.Numeric {
			s, ok := rec[col].(string)
			if !ok {
				continue
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"column": col,
					"value":  s,
				}).Warn("dropping record with non-numeric value in numeric column")
				continue binding
			}
			rec[col] = f
		}
		if len(opts.DedupKey) > 0 {
			key := dedupKey(rec, opts.DedupKey)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, rec)
	}
	return out
}

// uriTail returns the segment after the last "/" of a URI, or the input
// unchanged if it contains none.
func uriTail(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func dedupKey(rec bridgedb.Annotation, cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		if s, ok := rec[col].(string); ok {
			parts[i] = s
		}
	}
	return strings.Join(parts, "\x1f")
}
