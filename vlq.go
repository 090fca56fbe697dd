package baseindex

import "encoding/binary"

// Variable-length quantity encoding of unsigned integers, as used throughout the
// entry codec for offsets, lengths, and values. encoding/binary's Uvarint/PutUvarint
// implement exactly this shape (little-endian base-128: the low seven bits of each
// byte carry payload and the high bit is the continuation bit), so no hand-rolled
// bit-twiddling is needed here.

// appendVLQ appends the VLQ encoding of v to dst and returns the extended slice.
func appendVLQ(dst []byte, v uint64) []byte {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], v)
	return append(dst, scratch[:n]...)
}

// readVLQAt decodes a VLQ-encoded uint64 starting at buf[pos:] and returns the
// decoded value along with the number of bytes consumed.
func readVLQAt(buf []byte, pos int) (v uint64, n int, err error) {
	if pos < 0 || pos > len(buf) {
		return 0, 0, ErrCorruptData
	}

	v, n = binary.Uvarint(buf[pos:])
	if n <= 0 {
		return 0, 0, ErrCorruptData
	}

	return v, n, nil
}
