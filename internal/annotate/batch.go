// Package annotate holds the pieces shared by all datasource annotators:
// identifier batching, the output schema check, the per-call metadata record,
// and the Annotator contract the CLI runs against.
package annotate

import (
	"fmt"
	"strings"
)

// DefaultBatchSize is the largest number of identifiers substituted into a
// single remote query. The public SPARQL endpoints reject or time out on
// larger VALUES blocks.
const DefaultBatchSize = 25

// BatchIdentifiers deduplicates ids and splits them into batches of at most
// size elements; the last batch may be smaller. The union of all batches is
// the deduplicated input set and batches are disjoint. An empty input yields
// no batches. A size of zero or less falls back to DefaultBatchSize.
func BatchIdentifiers(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	seen := make(map[string]bool, len(ids))
	var unique []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	var batches [][]string
	for i := 0; i < len(unique); i += size {
		end := i + size
		if end > len(unique) {
			end = len(unique)
		}
		batches = append(batches, unique[i:end])
	}
	return batches
}

// QuoteBatch renders a batch as a space-separated list of double-quoted
// identifiers, ready for substitution into a SPARQL VALUES clause.
func QuoteBatch(batch []string) string {
	quoted := make([]string, len(batch))
	for i, id := range batch {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	return strings.Join(quoted, " ")
}
