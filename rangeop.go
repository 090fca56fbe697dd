package baseindex

import "bytes"

// KeyLink pairs a key with the offset of its head link entry, as returned
// by Range.
type KeyLink struct {
	Key  []byte
	Link LinkOffset
}

// Range returns every key in [startKey, endKey] (both bounds inclusive),
// in ascending byte order, along with its head link offset. A nil startKey
// or endKey leaves that side unbounded. Range only reads; it never stages
// a write and is safe to call between Insert calls without an intervening
// Flush.
func (ix *Index) Range(startKey, endKey []byte) ([]KeyLink, error) {
	var out []KeyLink

	loBound := startKey != nil
	hiBound := endKey != nil

	if err := ix.rangeWalk(Offset(ix.root.radixOffset), 0, nil, loBound, hiBound, startKey, endKey, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// rangeWalk descends the tree in ascending nibble order, the same order a
// byte-lexicographic walk requires, pruning children outside [startKey,
// endKey] the way a slice of a node's children is bounded by a start/end
// position: loBound/hiBound track whether the accumulated nibble path still
// exactly matches startKey/endKey's prefix, which is the only case where a
// bound actually constrains this node's children.
func (ix *Index) rangeWalk(o Offset, depth int, nibbles []byte, loBound, hiBound bool, startKey, endKey []byte, out *[]KeyLink) error {
	if o.IsNull() {
		return nil
	}

	tag, err := o.typeTag(ix.buf)
	if err != nil {
		return err
	}

	switch tag {
	case tagLeaf:
		leafOffset, err := leafOffsetFromOffset(o, ix.buf)
		if err != nil {
			return err
		}

		keyOffset, linkOffset, err := ix.leafKeyAndLinkOffset(leafOffset)
		if err != nil {
			return err
		}

		key, err := ix.keyContent(keyOffset)
		if err != nil {
			return err
		}

		if inRange(key, startKey, endKey) {
			*out = append(*out, KeyLink{Key: key, Link: linkOffset})
		}
		return nil

	case tagRadix:
		rAddr, err := radixOffsetFromOffset(o, ix.buf)
		if err != nil {
			return err
		}

		link, err := ix.radixLinkOffset(rAddr)
		if err != nil {
			return err
		}
		if !Offset(link).IsNull() && depth%2 == 0 {
			key := nibblesToKey(nibbles)
			if inRange(key, startKey, endKey) {
				*out = append(*out, KeyLink{Key: key, Link: link})
			}
		}

		lo, hi := byte(0), byte(15)
		loActive := loBound && depth < nibbleCount(startKey)
		hiActive := hiBound && depth < nibbleCount(endKey)
		if loActive {
			lo = nibbleAt(startKey, depth)
		}
		if hiActive {
			hi = nibbleAt(endKey, depth)
		}

		for n := lo; n <= hi; n++ {
			child, err := ix.radixChild(rAddr, n)
			if err != nil {
				return err
			}
			if !child.IsNull() {
				childLoBound := loActive && n == lo
				childHiBound := hiActive && n == hi

				if err := ix.rangeWalk(child, depth+1, appendNibble(nibbles, n), childLoBound, childHiBound, startKey, endKey, out); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return ErrCorruptData
	}
}

func inRange(key, start, end []byte) bool {
	if start != nil && bytes.Compare(key, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(key, end) > 0 {
		return false
	}
	return true
}

func appendNibble(nibbles []byte, n byte) []byte {
	out := make([]byte, len(nibbles)+1)
	copy(out, nibbles)
	out[len(nibbles)] = n
	return out
}

// nibblesToKey packs a complete (even-length) nibble path back into bytes.
func nibblesToKey(nibbles []byte) []byte {
	key := make([]byte, len(nibbles)/2)
	for i := range key {
		key[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return key
}
