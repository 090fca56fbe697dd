package baseindex

// memRadix, memLeaf, memLink, memKey and memRoot are the in-memory shapes of
// the five on-disk entry kinds (the root holds nothing but a pointer; its own
// length is added only when it is encoded). Each offset field may be
// dirty (not yet written) or on-disk; readers and writers below never care
// which, because Offset itself carries that distinction.

type memRadix struct {
	offsets    [16]Offset
	linkOffset LinkOffset
}

type memLeaf struct {
	keyOffset  KeyOffset
	linkOffset LinkOffset
}

type memLink struct {
	value          uint64
	nextLinkOffset LinkOffset
}

type memKey struct {
	key []byte
}

type memRoot struct {
	radixOffset RadixOffset
}

const jumpTableBytes = 16

func checkType(buf []byte, offset int, expected byte) error {
	if offset < 0 || offset >= len(buf) {
		return ErrCorruptData
	}
	if buf[offset] != expected {
		return ErrCorruptData
	}
	return nil
}

// decodeMemRadix reads a radix entry at buf[offset:]. It asserts that every
// non-zero jump-table byte points exactly at the position where that child's
// VLQ offset begins; a mismatch is corrupt data (invariant 2).
func decodeMemRadix(buf []byte, offset int) (memRadix, error) {
	if err := checkType(buf, offset, tagRadix); err != nil {
		return memRadix{}, err
	}

	pos := 1
	if offset+pos+jumpTableBytes > len(buf) {
		return memRadix{}, ErrCorruptData
	}

	jumpTable := buf[offset+pos : offset+pos+jumpTableBytes]
	pos += jumpTableBytes

	linkRaw, n, err := readVLQAt(buf, offset+pos)
	if err != nil {
		return memRadix{}, err
	}
	diskLink, err := offsetFromDisk(linkRaw)
	if err != nil {
		return memRadix{}, err
	}
	linkOffset, err := linkOffsetFromOffset(diskLink, buf)
	if err != nil {
		return memRadix{}, err
	}
	pos += n

	var offsets [16]Offset
	for i := 0; i < 16; i++ {
		if jumpTable[i] == 0 {
			continue
		}

		if int(jumpTable[i]) != pos {
			return memRadix{}, ErrCorruptData
		}

		v, n, err := readVLQAt(buf, offset+pos)
		if err != nil {
			return memRadix{}, err
		}
		off, err := offsetFromDisk(v)
		if err != nil {
			return memRadix{}, err
		}

		offsets[i] = off
		pos += n
	}

	return memRadix{offsets: offsets, linkOffset: linkOffset}, nil
}

// encodeMemRadix serializes a radix entry. It reserves the jump table up
// front, then appends the link offset and each present child in ascending
// nibble order, recording each child's jump-table byte as it goes.
func encodeMemRadix(r memRadix, t translationTable) []byte {
	buf := make([]byte, 0, 1+jumpTableBytes+5*17)
	buf = append(buf, tagRadix)
	buf = append(buf, make([]byte, jumpTableBytes)...)
	buf = appendVLQ(buf, t.resolve(Offset(r.linkOffset)))

	for i := 0; i < 16; i++ {
		v := r.offsets[i]
		if v.IsNull() {
			continue
		}

		buf[1+i] = byte(len(buf))
		buf = appendVLQ(buf, t.resolve(v))
	}

	return buf
}

func decodeMemLeaf(buf []byte, offset int) (memLeaf, error) {
	if err := checkType(buf, offset, tagLeaf); err != nil {
		return memLeaf{}, err
	}

	keyRaw, n1, err := readVLQAt(buf, offset+1)
	if err != nil {
		return memLeaf{}, err
	}
	diskKey, err := offsetFromDisk(keyRaw)
	if err != nil {
		return memLeaf{}, err
	}
	keyOffset, err := keyOffsetFromOffset(diskKey, buf)
	if err != nil {
		return memLeaf{}, err
	}

	linkRaw, _, err := readVLQAt(buf, offset+1+n1)
	if err != nil {
		return memLeaf{}, err
	}
	diskLink, err := offsetFromDisk(linkRaw)
	if err != nil {
		return memLeaf{}, err
	}
	linkOffset, err := linkOffsetFromOffset(diskLink, buf)
	if err != nil {
		return memLeaf{}, err
	}

	return memLeaf{keyOffset: keyOffset, linkOffset: linkOffset}, nil
}

func encodeMemLeaf(l memLeaf, t translationTable) []byte {
	buf := make([]byte, 0, 1+2*binaryMaxVarint)
	buf = append(buf, tagLeaf)
	buf = appendVLQ(buf, t.resolve(Offset(l.keyOffset)))
	buf = appendVLQ(buf, t.resolve(Offset(l.linkOffset)))
	return buf
}

func decodeMemLink(buf []byte, offset int) (memLink, error) {
	if err := checkType(buf, offset, tagLink); err != nil {
		return memLink{}, err
	}

	value, n1, err := readVLQAt(buf, offset+1)
	if err != nil {
		return memLink{}, err
	}

	nextRaw, _, err := readVLQAt(buf, offset+1+n1)
	if err != nil {
		return memLink{}, err
	}
	diskNext, err := offsetFromDisk(nextRaw)
	if err != nil {
		return memLink{}, err
	}
	nextLinkOffset, err := linkOffsetFromOffset(diskNext, buf)
	if err != nil {
		return memLink{}, err
	}

	return memLink{value: value, nextLinkOffset: nextLinkOffset}, nil
}

func encodeMemLink(l memLink, t translationTable) []byte {
	buf := make([]byte, 0, 1+2*binaryMaxVarint)
	buf = append(buf, tagLink)
	buf = appendVLQ(buf, l.value)
	buf = appendVLQ(buf, t.resolve(Offset(l.nextLinkOffset)))
	return buf
}

func decodeMemKey(buf []byte, offset int) (memKey, error) {
	if err := checkType(buf, offset, tagKey); err != nil {
		return memKey{}, err
	}

	keyLen, n, err := readVLQAt(buf, offset+1)
	if err != nil {
		return memKey{}, err
	}

	start := offset + 1 + n
	end := start + int(keyLen)
	if end > len(buf) || end < start {
		return memKey{}, ErrCorruptData
	}

	key := make([]byte, end-start)
	copy(key, buf[start:end])

	return memKey{key: key}, nil
}

func encodeMemKey(k memKey) []byte {
	buf := make([]byte, 0, 1+binaryMaxVarint+len(k.key))
	buf = append(buf, tagKey)
	buf = appendVLQ(buf, uint64(len(k.key)))
	buf = append(buf, k.key...)
	return buf
}

// decodeMemRoot reads a root entry at an exact offset, verifying that its
// trailing self-length VLQ matches the entry's actual byte length.
func decodeMemRoot(buf []byte, offset int) (memRoot, error) {
	if err := checkType(buf, offset, tagRoot); err != nil {
		return memRoot{}, err
	}

	radixRaw, n1, err := readVLQAt(buf, offset+1)
	if err != nil {
		return memRoot{}, err
	}
	diskRadix, err := offsetFromDisk(radixRaw)
	if err != nil {
		return memRoot{}, err
	}
	radixOffset, err := radixOffsetFromOffset(diskRadix, buf)
	if err != nil {
		return memRoot{}, err
	}

	selfLen, _, err := readVLQAt(buf, offset+1+n1)
	if err != nil {
		return memRoot{}, err
	}

	if int(selfLen) != 1+n1+1 {
		return memRoot{}, ErrCorruptData
	}

	return memRoot{radixOffset: radixOffset}, nil
}

// decodeMemRootFromEnd locates a root entry by reading backward from the
// last byte of a buffer of length end: the last byte is the root's
// self-length VLQ (guaranteed to fit in one byte, see encodeMemRoot), which
// gives the root entry's start offset.
func decodeMemRootFromEnd(buf []byte, end uint64) (memRoot, error) {
	if end <= 1 {
		return memRoot{}, ErrCorruptData
	}

	size, _, err := readVLQAt(buf, int(end)-1)
	if err != nil {
		return memRoot{}, err
	}

	if size > end {
		return memRoot{}, ErrCorruptData
	}

	return decodeMemRoot(buf, int(end-size))
}

// encodeMemRoot serializes a root entry. The trailing length VLQ always fits
// in a single byte: a root entry is at most 1 (tag) + 10 (max VLQ) + 1 (this
// byte) = 12 bytes, far under the 128 that would need a second VLQ byte.
func encodeMemRoot(r memRoot, t translationTable) []byte {
	buf := make([]byte, 0, 1+binaryMaxVarint+1)
	buf = append(buf, tagRoot)
	buf = appendVLQ(buf, t.resolve(Offset(r.radixOffset)))

	selfLen := len(buf) + 1
	buf = appendVLQ(buf, uint64(selfLen))

	return buf
}

const binaryMaxVarint = 10
