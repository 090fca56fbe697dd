package baseindex

import "fmt"

// EntryDump describes a single on-disk entry as found by a linear scan,
// independent of any particular root -- it is meant for inspecting a file's
// raw contents, including entries no longer reachable from the current root
// (the append-only format never reclaims them).
type EntryDump struct {
	Offset uint64
	Kind   string
	Detail string
}

// DebugScan walks every entry in the file from the header onward and
// returns one EntryDump per entry, in file order. It does not follow the
// tree structure -- it is a flat dump of everything ever appended,
// including stale entries made unreachable by later flushes.
func (ix *Index) DebugScan() ([]EntryDump, error) {
	buf := ix.buf
	if len(buf) == 0 {
		return nil, nil
	}
	if buf[0] != tagHeader {
		return nil, ErrCorruptData
	}

	var out []EntryDump
	out = append(out, EntryDump{Offset: 0, Kind: "header", Detail: ""})

	pos := 1
	for pos < len(buf) {
		size, err := entrySize(buf, pos)
		if err != nil {
			return nil, err
		}

		dump, err := ix.dumpEntry(buf, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, dump)

		pos += size
	}

	return out, nil
}

func (ix *Index) dumpEntry(buf []byte, offset int) (EntryDump, error) {
	switch buf[offset] {
	case tagRoot:
		r, err := decodeMemRoot(buf, offset)
		if err != nil {
			return EntryDump{}, err
		}
		return EntryDump{
			Offset: uint64(offset),
			Kind:   "root",
			Detail: fmt.Sprintf("radix=%d", uint64(r.radixOffset)),
		}, nil

	case tagRadix:
		r, err := decodeMemRadix(buf, offset)
		if err != nil {
			return EntryDump{}, err
		}
		children := 0
		for _, c := range r.offsets {
			if !c.IsNull() {
				children++
			}
		}
		return EntryDump{
			Offset: uint64(offset),
			Kind:   "radix",
			Detail: fmt.Sprintf("children=%d link=%d", children, uint64(r.linkOffset)),
		}, nil

	case tagLeaf:
		l, err := decodeMemLeaf(buf, offset)
		if err != nil {
			return EntryDump{}, err
		}
		return EntryDump{
			Offset: uint64(offset),
			Kind:   "leaf",
			Detail: fmt.Sprintf("key=%d link=%d", uint64(l.keyOffset), uint64(l.linkOffset)),
		}, nil

	case tagLink:
		l, err := decodeMemLink(buf, offset)
		if err != nil {
			return EntryDump{}, err
		}
		return EntryDump{
			Offset: uint64(offset),
			Kind:   "link",
			Detail: fmt.Sprintf("value=%d next=%d", l.value, uint64(l.nextLinkOffset)),
		}, nil

	case tagKey:
		k, err := decodeMemKey(buf, offset)
		if err != nil {
			return EntryDump{}, err
		}
		return EntryDump{
			Offset: uint64(offset),
			Kind:   "key",
			Detail: fmt.Sprintf("%q", k.key),
		}, nil

	default:
		return EntryDump{}, ErrCorruptData
	}
}

// entrySize returns the number of bytes the entry starting at buf[offset:]
// occupies, without fully decoding it. Root entries already embed their own
// total length (see encodeMemRoot); the other kinds are measured by
// replaying their VLQ layout.
func entrySize(buf []byte, offset int) (int, error) {
	if offset < 0 || offset >= len(buf) {
		return 0, ErrCorruptData
	}

	switch buf[offset] {
	case tagRoot:
		_, n1, err := readVLQAt(buf, offset+1)
		if err != nil {
			return 0, err
		}
		selfLen, _, err := readVLQAt(buf, offset+1+n1)
		if err != nil {
			return 0, err
		}
		return int(selfLen), nil

	case tagRadix:
		pos := 1 + jumpTableBytes
		if offset+pos > len(buf) {
			return 0, ErrCorruptData
		}
		jumpTable := buf[offset+1 : offset+1+jumpTableBytes]

		_, n, err := readVLQAt(buf, offset+pos)
		if err != nil {
			return 0, err
		}
		pos += n

		for i := 0; i < 16; i++ {
			if jumpTable[i] == 0 {
				continue
			}
			_, n, err := readVLQAt(buf, offset+pos)
			if err != nil {
				return 0, err
			}
			pos += n
		}
		return pos, nil

	case tagLeaf, tagLink:
		_, n1, err := readVLQAt(buf, offset+1)
		if err != nil {
			return 0, err
		}
		_, n2, err := readVLQAt(buf, offset+1+n1)
		if err != nil {
			return 0, err
		}
		return 1 + n1 + n2, nil

	case tagKey:
		keyLen, n, err := readVLQAt(buf, offset+1)
		if err != nil {
			return 0, err
		}
		return 1 + n + int(keyLen), nil

	default:
		return 0, ErrCorruptData
	}
}
