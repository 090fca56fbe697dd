package baseindex

import "bytes"

// Get walks the radix tree nibble by nibble following key, and returns the
// offset of the head link entry for key. A null LinkOffset (IsNull() true)
// means key is not present; it is not an error.
func (ix *Index) Get(key []byte) (LinkOffset, error) {
	cur := Offset(ix.root.radixOffset)
	it := newNibbleIter(key)

	for {
		nib, ok := it.next()
		if !ok {
			return ix.radixLinkOffset(RadixOffset(cur))
		}

		child, err := ix.radixChild(RadixOffset(cur), nib)
		if err != nil {
			return 0, err
		}
		if child.IsNull() {
			return 0, nil
		}

		tag, err := child.typeTag(ix.buf)
		if err != nil {
			return 0, err
		}

		switch tag {
		case tagRadix:
			cur = child

		case tagLeaf:
			leafOffset, err := leafOffsetFromOffset(child, ix.buf)
			if err != nil {
				return 0, err
			}

			keyOffset, linkOffset, err := ix.leafKeyAndLinkOffset(leafOffset)
			if err != nil {
				return 0, err
			}

			storedKey, err := ix.keyContent(keyOffset)
			if err != nil {
				return 0, err
			}

			if !bytes.Equal(storedKey, key) {
				return 0, nil
			}
			return linkOffset, nil

		default:
			return 0, ErrCorruptData
		}
	}
}

// Values collects every value (most recently inserted first) chained off l.
func (ix *Index) Values(l LinkOffset) ([]uint64, error) {
	var out []uint64
	cur := l

	for !Offset(cur).IsNull() {
		v, err := ix.linkValue(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		next, err := ix.linkNext(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	return out, nil
}
