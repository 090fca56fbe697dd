package baseindex

import "testing"

func TestDirtyOffsetRoundTrip(t *testing.T) {
	cases := []struct {
		index int
		tag   byte
	}{
		{0, tagRadix},
		{1, tagLeaf},
		{42, tagLink},
		{1000000, tagKey},
	}

	for _, c := range cases {
		o := newDirtyOffset(c.index, c.tag)
		if !o.IsDirty() {
			t.Fatalf("offset for index=%d tag=%d not reported dirty", c.index, c.tag)
		}
		if o.IsNull() {
			t.Fatalf("dirty offset reported null")
		}
		if got := o.dirtyIndex(); got != c.index {
			t.Errorf("index=%d tag=%d: dirtyIndex() = %d", c.index, c.tag, got)
		}
		if got := o.dirtyTag(); got != c.tag {
			t.Errorf("index=%d tag=%d: dirtyTag() = %d", c.index, c.tag, got)
		}
	}
}

func TestOffsetFromDiskRejectsDirtyValues(t *testing.T) {
	if _, err := offsetFromDisk(dirtyBase); err != ErrCorruptData {
		t.Errorf("expected ErrCorruptData for a disk value at dirtyBase, got %v", err)
	}
	if _, err := offsetFromDisk(dirtyBase - 1); err != nil {
		t.Errorf("unexpected error for max valid on-disk value: %v", err)
	}
}

func TestNullOffsetIsDistinctFromDirty(t *testing.T) {
	var o Offset
	if !o.IsNull() {
		t.Error("zero offset should be null")
	}
	if o.IsDirty() {
		t.Error("zero offset should not be dirty")
	}
}

func TestTranslationTableResolvePanicsOnMiss(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected resolve to panic on an unresolved dirty offset")
		}
	}()

	tbl := make(translationTable)
	tbl.resolve(Offset(newDirtyOffset(0, tagRadix)))
}

func TestTranslationTableResolvePassesThroughOnDisk(t *testing.T) {
	tbl := make(translationTable)
	if got := tbl.resolve(Offset(12345)); got != 12345 {
		t.Errorf("on-disk offset should resolve to itself, got %d", got)
	}
}
