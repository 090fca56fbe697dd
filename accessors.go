package baseindex

// This file contains the typed-offset accessors used by lookup, insert and
// flush: each function either reads the staged copy (dirty offset) or
// decodes the on-disk bytes (on-disk offset), and the create/set helpers
// mutate staging only -- the on-disk buffer is never written through.

func (ix *Index) radixLinkOffset(r RadixOffset) (LinkOffset, error) {
	o := Offset(r)
	if o.IsDirty() {
		return ix.dirtyRadixes[o.dirtyIndex()].linkOffset, nil
	}

	m, err := decodeMemRadix(ix.buf, int(o))
	if err != nil {
		return 0, err
	}
	return m.linkOffset, nil
}

// radixChild returns the raw (untyped) offset stored at nibble i of radix r,
// or the null offset if that child does not exist.
func (ix *Index) radixChild(r RadixOffset, i byte) (Offset, error) {
	o := Offset(r)
	if o.IsDirty() {
		return ix.dirtyRadixes[o.dirtyIndex()].offsets[i], nil
	}

	m, err := decodeMemRadix(ix.buf, int(o))
	if err != nil {
		return 0, err
	}
	return m.offsets[i], nil
}

// radixCopy copies an on-disk radix entry into staging so it can be
// modified, or returns r unchanged if it is already dirty.
func (ix *Index) radixCopy(r RadixOffset) (RadixOffset, error) {
	o := Offset(r)
	if o.IsDirty() {
		return r, nil
	}

	m, err := decodeMemRadix(ix.buf, int(o))
	if err != nil {
		return 0, err
	}

	idx := len(ix.dirtyRadixes)
	ix.dirtyRadixes = append(ix.dirtyRadixes, m)
	return radixOffsetFromDirtyIndex(idx), nil
}

// radixSetChild changes a child pointer of a dirty radix entry in place.
// Calling this on an on-disk (non-dirty) offset is a programming error.
func (ix *Index) radixSetChild(r RadixOffset, i byte, v Offset) {
	o := Offset(r)
	if !o.IsDirty() {
		panic("baseindex: radixSetChild called on an on-disk radix entry")
	}
	ix.dirtyRadixes[o.dirtyIndex()].offsets[i] = v
}

// radixSetLink changes the link offset of a dirty radix entry in place.
func (ix *Index) radixSetLink(r RadixOffset, v LinkOffset) {
	o := Offset(r)
	if !o.IsDirty() {
		panic("baseindex: radixSetLink called on an on-disk radix entry")
	}
	ix.dirtyRadixes[o.dirtyIndex()].linkOffset = v
}

// radixCreate stages a brand new radix entry and returns its dirty offset.
func (ix *Index) radixCreate(m memRadix) RadixOffset {
	idx := len(ix.dirtyRadixes)
	ix.dirtyRadixes = append(ix.dirtyRadixes, m)
	return radixOffsetFromDirtyIndex(idx)
}

func (ix *Index) leafKeyAndLinkOffset(l LeafOffset) (KeyOffset, LinkOffset, error) {
	o := Offset(l)
	if o.IsDirty() {
		e := ix.dirtyLeafs[o.dirtyIndex()]
		return e.keyOffset, e.linkOffset, nil
	}

	m, err := decodeMemLeaf(ix.buf, int(o))
	if err != nil {
		return 0, 0, err
	}
	return m.keyOffset, m.linkOffset, nil
}

// leafCreate stages a brand new leaf entry.
func (ix *Index) leafCreate(linkOffset LinkOffset, keyOffset KeyOffset) LeafOffset {
	idx := len(ix.dirtyLeafs)
	ix.dirtyLeafs = append(ix.dirtyLeafs, memLeaf{keyOffset: keyOffset, linkOffset: linkOffset})
	return leafOffsetFromDirtyIndex(idx)
}

// leafSetLink updates a leaf's link offset, copy-on-write: if the leaf is
// already dirty it is mutated in place, otherwise a fresh staged copy (with
// the same key) is created and returned.
func (ix *Index) leafSetLink(l LeafOffset, linkOffset LinkOffset) (LeafOffset, error) {
	o := Offset(l)
	if o.IsDirty() {
		ix.dirtyLeafs[o.dirtyIndex()].linkOffset = linkOffset
		return l, nil
	}

	m, err := decodeMemLeaf(ix.buf, int(o))
	if err != nil {
		return 0, err
	}
	return ix.leafCreate(linkOffset, m.keyOffset), nil
}

// linkValue returns the value stored in a non-null link entry.
func (ix *Index) linkValue(l LinkOffset) (uint64, error) {
	o := Offset(l)
	if o.IsNull() {
		return 0, ErrCorruptData
	}

	if o.IsDirty() {
		return ix.dirtyLinks[o.dirtyIndex()].value, nil
	}

	m, err := decodeMemLink(ix.buf, int(o))
	if err != nil {
		return 0, err
	}
	return m.value, nil
}

// linkNext returns the next link in the chain, or the null offset at the end.
func (ix *Index) linkNext(l LinkOffset) (LinkOffset, error) {
	o := Offset(l)
	if o.IsDirty() {
		return ix.dirtyLinks[o.dirtyIndex()].nextLinkOffset, nil
	}

	m, err := decodeMemLink(ix.buf, int(o))
	if err != nil {
		return 0, err
	}
	return m.nextLinkOffset, nil
}

// linkCreate stages a new link entry chaining onto next.
func (ix *Index) linkCreate(next LinkOffset, value uint64) LinkOffset {
	idx := len(ix.dirtyLinks)
	ix.dirtyLinks = append(ix.dirtyLinks, memLink{value: value, nextLinkOffset: next})
	return linkOffsetFromDirtyIndex(idx)
}

// keyContent returns the raw key bytes stored at k.
func (ix *Index) keyContent(k KeyOffset) ([]byte, error) {
	o := Offset(k)
	if o.IsDirty() {
		return ix.dirtyKeys[o.dirtyIndex()].key, nil
	}

	m, err := decodeMemKey(ix.buf, int(o))
	if err != nil {
		return nil, err
	}
	return m.key, nil
}

// keyCreate stages a new key entry, copying key so later caller mutation
// cannot corrupt staged state.
func (ix *Index) keyCreate(key []byte) KeyOffset {
	cp := make([]byte, len(key))
	copy(cp, key)

	idx := len(ix.dirtyKeys)
	ix.dirtyKeys = append(ix.dirtyKeys, memKey{key: cp})
	return keyOffsetFromDirtyIndex(idx)
}
