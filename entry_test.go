package baseindex

import (
	"bytes"
	"testing"
)

// withHeader prepends the one-byte file header so entry offsets in these
// tests line up with what a real file would contain (offset 0 is reserved
// for the header, never a valid entry start).
func withHeader(entry []byte) []byte {
	buf := make([]byte, 1, 1+len(entry))
	buf[0] = tagHeader
	return append(buf, entry...)
}

func TestRoundTripKeyEntry(t *testing.T) {
	enc := encodeMemKey(memKey{key: []byte("hello world")})
	buf := withHeader(enc)

	got, err := decodeMemKey(buf, 1)
	if err != nil {
		t.Fatalf("decodeMemKey: %v", err)
	}
	if !bytes.Equal(got.key, []byte("hello world")) {
		t.Errorf("key = %q, want %q", got.key, "hello world")
	}
}

func TestRoundTripLinkEntry(t *testing.T) {
	t0 := make(translationTable)
	enc := encodeMemLink(memLink{value: 42, nextLinkOffset: 0}, t0)
	buf := withHeader(enc)

	got, err := decodeMemLink(buf, 1)
	if err != nil {
		t.Fatalf("decodeMemLink: %v", err)
	}
	if got.value != 42 {
		t.Errorf("value = %d, want 42", got.value)
	}
	if !Offset(got.nextLinkOffset).IsNull() {
		t.Errorf("expected null next link")
	}
}

func TestRoundTripLinkChain(t *testing.T) {
	t0 := make(translationTable)

	firstEnc := encodeMemLink(memLink{value: 1, nextLinkOffset: 0}, t0)
	buf := withHeader(firstEnc)
	firstOffset := 1

	t0[uint64(Offset(linkOffsetFromDirtyIndex(0)))] = uint64(firstOffset)
	secondEnc := encodeMemLink(memLink{value: 2, nextLinkOffset: linkOffsetFromDirtyIndex(0)}, t0)
	buf = append(buf, secondEnc...)
	secondOffset := firstOffset + len(firstEnc)

	got, err := decodeMemLink(buf, secondOffset)
	if err != nil {
		t.Fatalf("decodeMemLink: %v", err)
	}
	if got.value != 2 {
		t.Errorf("value = %d, want 2", got.value)
	}
	if uint64(got.nextLinkOffset) != uint64(firstOffset) {
		t.Errorf("next link = %d, want %d", got.nextLinkOffset, firstOffset)
	}
}

func TestRoundTripLeafEntry(t *testing.T) {
	t0 := make(translationTable)

	keyEnc := encodeMemKey(memKey{key: []byte("k")})
	buf := withHeader(keyEnc)
	keyOffset := 1

	linkEnc := encodeMemLink(memLink{value: 7, nextLinkOffset: 0}, t0)
	buf = append(buf, linkEnc...)
	linkOffset := keyOffset + len(keyEnc)

	t0[uint64(Offset(keyOffsetFromDirtyIndex(0)))] = uint64(keyOffset)
	t0[uint64(Offset(linkOffsetFromDirtyIndex(0)))] = uint64(linkOffset)

	leafEnc := encodeMemLeaf(memLeaf{keyOffset: keyOffsetFromDirtyIndex(0), linkOffset: linkOffsetFromDirtyIndex(0)}, t0)
	buf = append(buf, leafEnc...)
	leafOffset := linkOffset + len(linkEnc)

	got, err := decodeMemLeaf(buf, leafOffset)
	if err != nil {
		t.Fatalf("decodeMemLeaf: %v", err)
	}
	if uint64(got.keyOffset) != uint64(keyOffset) {
		t.Errorf("key offset = %d, want %d", got.keyOffset, keyOffset)
	}
	if uint64(got.linkOffset) != uint64(linkOffset) {
		t.Errorf("link offset = %d, want %d", got.linkOffset, linkOffset)
	}
}

func TestRoundTripRadixEntry(t *testing.T) {
	t0 := make(translationTable)

	var m memRadix
	m.offsets[0x3] = Offset(100)
	m.offsets[0xF] = Offset(200)

	enc := encodeMemRadix(m, t0)
	buf := withHeader(enc)

	got, err := decodeMemRadix(buf, 1)
	if err != nil {
		t.Fatalf("decodeMemRadix: %v", err)
	}
	if got.offsets[0x3] != Offset(100) {
		t.Errorf("child[0x3] = %d, want 100", got.offsets[0x3])
	}
	if got.offsets[0xF] != Offset(200) {
		t.Errorf("child[0xF] = %d, want 200", got.offsets[0xF])
	}
	for i, o := range got.offsets {
		if i != 0x3 && i != 0xF && !o.IsNull() {
			t.Errorf("child[%x] expected null, got %d", i, o)
		}
	}
}

func TestRoundTripRootEntry(t *testing.T) {
	t0 := make(translationTable)

	// decodeMemRoot verifies that the root points at a radix entry, so the
	// buffer holds one for it to reference.
	radixEnc := encodeMemRadix(memRadix{}, t0)
	buf := withHeader(radixEnc)
	radixOffset := 1

	enc := encodeMemRoot(memRoot{radixOffset: RadixOffset(radixOffset)}, t0)
	buf = append(buf, enc...)
	rootOffset := radixOffset + len(radixEnc)

	got, err := decodeMemRoot(buf, rootOffset)
	if err != nil {
		t.Fatalf("decodeMemRoot: %v", err)
	}
	if uint64(got.radixOffset) != uint64(radixOffset) {
		t.Errorf("radix offset = %d, want %d", got.radixOffset, radixOffset)
	}

	fromEnd, err := decodeMemRootFromEnd(buf, uint64(len(buf)))
	if err != nil {
		t.Fatalf("decodeMemRootFromEnd: %v", err)
	}
	if uint64(fromEnd.radixOffset) != uint64(radixOffset) {
		t.Errorf("decodeMemRootFromEnd: radix offset = %d, want %d", fromEnd.radixOffset, radixOffset)
	}
}
