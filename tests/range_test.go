package baseindextests

import (
	"bytes"
	"sort"
	"testing"

	"github.com/nova-submodules/baseindex"
)

// TestRangeSortedOrderAndBounds checks that Range returns keys in ascending
// byte order and respects inclusive start/end bounds, including the
// unbounded (nil) cases on either side.
func TestRangeSortedOrderAndBounds(t *testing.T) {
	ix := mustOpen(t, newIndexPath(t), 0)

	keys := []string{"apple", "banana", "cherry", "date", "fig", "grape"}
	for i, k := range keys {
		if err := ix.Insert([]byte(k), uint64(i)); err != nil {
			t.Fatalf("insert %q: %v", k, err)
		}
	}

	all, err := ix.Range(nil, nil)
	if err != nil {
		t.Fatalf("range(nil, nil): %v", err)
	}
	if len(all) != len(keys) {
		t.Fatalf("range(nil, nil): got %d keys, want %d", len(all), len(keys))
	}
	assertSorted(t, all)

	bounded, err := ix.Range([]byte("banana"), []byte("fig"))
	if err != nil {
		t.Fatalf("range(banana, fig): %v", err)
	}
	want := []string{"banana", "cherry", "date", "fig"}
	gotKeys := make([]string, len(bounded))
	for i, kl := range bounded {
		gotKeys[i] = string(kl.Key)
	}
	if !sort.StringsAreSorted(gotKeys) {
		t.Errorf("range(banana, fig) not sorted: %v", gotKeys)
	}
	if len(gotKeys) != len(want) {
		t.Fatalf("range(banana, fig): got %v, want %v", gotKeys, want)
	}
	for i := range want {
		if gotKeys[i] != want[i] {
			t.Errorf("range(banana, fig)[%d]: got %q, want %q", i, gotKeys[i], want[i])
		}
	}

	lowerOnly, err := ix.Range([]byte("date"), nil)
	if err != nil {
		t.Fatalf("range(date, nil): %v", err)
	}
	for _, kl := range lowerOnly {
		if bytes.Compare(kl.Key, []byte("date")) < 0 {
			t.Errorf("range(date, nil) returned key below bound: %q", kl.Key)
		}
	}
}

func assertSorted(t *testing.T, results []baseindex.KeyLink) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		if bytes.Compare(results[i-1].Key, results[i].Key) >= 0 {
			t.Errorf("range results out of order at %d: %q >= %q", i, results[i-1].Key, results[i].Key)
		}
	}
}
