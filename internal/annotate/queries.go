package annotate

import (
	"github.com/biodatafuse/bioannot/internal/store"
)

// LoadQuery returns the query template at path from the store, falling back
// to the built-in template if the store is nil or has no file at path.
// Curated query sets can thereby be maintained in a versioned repository
// without rebuilding the binary.
func LoadQuery(st store.Store, path, builtin string) string {
	if st == nil {
		return builtin
	}
	bs, err := st.ReadFile(path)
	if err != nil {
		return builtin
	}
	return string(bs)
}
