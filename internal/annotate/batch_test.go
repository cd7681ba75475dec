package annotate

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBatchIdentifiers_Sizes(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		size      int
		wantSizes []int
	}{
		{name: "empty input", n: 0, size: 25, wantSizes: nil},
		{name: "below batch size", n: 10, size: 25, wantSizes: []int{10}},
		{name: "exact batch size", n: 25, size: 25, wantSizes: []int{25}},
		{name: "sixty identifiers", n: 60, size: 25, wantSizes: []int{25, 25, 10}},
		{name: "default size fallback", n: 30, size: 0, wantSizes: []int{25, 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ids := make([]string, tc.n)
			for i := range ids {
				ids[i] = fmt.Sprintf("ENSG%011d", i)
			}
			batches := BatchIdentifiers(ids, tc.size)
			var gotSizes []int
			for _, b := range batches {
				gotSizes = append(gotSizes, len(b))
			}
			if diff := cmp.Diff(tc.wantSizes, gotSizes); diff != "" {
				t.Errorf("batch sizes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBatchIdentifiers_DedupAndUnion(t *testing.T) {
	ids := []string{"a", "b", "a", "c", "b", "d", "e"}
	batches := BatchIdentifiers(ids, 2)

	var all []string
	for _, b := range batches {
		if len(b) > 2 {
			t.Errorf("batch %v exceeds size limit 2", b)
		}
		all = append(all, b...)
	}
	sort.Strings(all)
	want := []string{"a", "b", "c", "d", "e"}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("union of batches mismatch (-want +got):\n%s", diff)
	}
}

func TestQuoteBatch(t *testing.T) {
	got := QuoteBatch([]string{"ENSG00000141510", "ENSG00000012048"})
	want := `"ENSG00000141510" "ENSG00000012048"`
	if got != want {
		t.Errorf("QuoteBatch = %s, want %s", got, want)
	}
	if got := QuoteBatch(nil); got != "" {
		t.Errorf("QuoteBatch(nil) = %q, want empty string", got)
	}
}
