package baseindex

import "testing"

func TestVLQRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 300, 1 << 20, 1<<63 - 1}

	for _, v := range values {
		buf := appendVLQ(nil, v)
		got, n, err := readVLQAt(buf, 0)
		if err != nil {
			t.Fatalf("readVLQAt(%d): %v", v, err)
		}
		if n != len(buf) {
			t.Errorf("value %d: consumed %d bytes, encoded %d", v, n, len(buf))
		}
		if got != v {
			t.Errorf("value %d: round-tripped to %d", v, got)
		}
	}
}

func TestVLQSingleByteBudget(t *testing.T) {
	// A root entry's self-length must always fit in one VLQ byte (<128):
	// tag(1) + max radix-offset VLQ(10) + this byte(1) = 12, far under 128.
	buf := appendVLQ(nil, 12)
	if len(buf) != 1 {
		t.Fatalf("expected a single-byte encoding for 12, got %d bytes", len(buf))
	}
}

func TestReadVLQAtOutOfRange(t *testing.T) {
	buf := []byte{0x01}
	if _, _, err := readVLQAt(buf, 5); err != ErrCorruptData {
		t.Errorf("expected ErrCorruptData for out-of-range position, got %v", err)
	}
}
