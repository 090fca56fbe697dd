package baseindex

import "bytes"

// Insert prepends value onto the linked list stored at key, creating the
// key's leaf (and any radix nodes needed to address it) if key is new.
func (ix *Index) Insert(key []byte, value uint64) error {
	return ix.InsertAdvanced(key, &value, nil)
}

// InsertAdvanced is the general form behind Insert, supporting all four
// combinations of value and link:
//
//   - value set, link nil: prepend value onto key's existing chain (this is
//     what Insert does).
//   - value nil, link set: repoint key's head link wholesale at link,
//     without allocating a new link entry. Used when the caller already
//     has the replacement head (e.g. rebuilding a chain elsewhere).
//   - value set, link set: create a new link (value -> link) and repoint
//     key at the new link, chaining onto link instead of key's current head.
//   - value nil, link nil: mark the path to key dirty (copy-on-write through
//     every node on the path) without any logical change to its value.
func (ix *Index) InsertAdvanced(key []byte, value *uint64, link *LinkOffset) error {
	it := newNibbleIter(key)
	newRoot, err := ix.insertRadix(RadixOffset(ix.root.radixOffset), it, key, value, link)
	if err != nil {
		return err
	}

	ix.root = memRoot{radixOffset: RadixOffset(newRoot)}
	return nil
}

// resolveLink produces the link offset to store, covering all four
// value/link combinations documented on InsertAdvanced.
func (ix *Index) resolveLink(existing LinkOffset, value *uint64, link *LinkOffset) LinkOffset {
	switch {
	case value != nil && link != nil:
		return ix.linkCreate(*link, *value)
	case value != nil:
		return ix.linkCreate(existing, *value)
	case link != nil:
		return *link
	default:
		return existing
	}
}

// insertRadix walks one nibble of key at a time, copying each radix node on
// the path into staging (copy-on-write) before descending, and returns the
// (possibly new) offset of the staged radix node the caller should link in
// its own child slot.
func (ix *Index) insertRadix(r RadixOffset, it *nibbleIter, key []byte, value *uint64, link *LinkOffset) (Offset, error) {
	rd, err := ix.radixCopy(r)
	if err != nil {
		return 0, err
	}

	nib, ok := it.next()
	if !ok {
		curLink, err := ix.radixLinkOffset(rd)
		if err != nil {
			return 0, err
		}
		ix.radixSetLink(rd, ix.resolveLink(curLink, value, link))
		return Offset(rd), nil
	}

	child, err := ix.radixChild(rd, nib)
	if err != nil {
		return 0, err
	}

	if child.IsNull() {
		keyOffset := ix.keyCreate(key)
		leafOffset := ix.leafCreate(ix.resolveLink(0, value, link), keyOffset)
		ix.radixSetChild(rd, nib, Offset(leafOffset))
		return Offset(rd), nil
	}

	tag, err := child.typeTag(ix.buf)
	if err != nil {
		return 0, err
	}

	switch tag {
	case tagRadix:
		childRadix, err := radixOffsetFromOffset(child, ix.buf)
		if err != nil {
			return 0, err
		}

		newChild, err := ix.insertRadix(childRadix, it, key, value, link)
		if err != nil {
			return 0, err
		}
		ix.radixSetChild(rd, nib, newChild)
		return Offset(rd), nil

	case tagLeaf:
		leafOffset, err := leafOffsetFromOffset(child, ix.buf)
		if err != nil {
			return 0, err
		}

		newChild, err := ix.insertLeaf(leafOffset, it, key, value, link)
		if err != nil {
			return 0, err
		}
		ix.radixSetChild(rd, nib, newChild)
		return Offset(rd), nil

	default:
		return 0, ErrCorruptData
	}
}

// insertLeaf handles the case where key's path has reached an existing
// leaf: either key matches the leaf's stored key exactly (update its link
// in place), or the two keys diverge and the leaf must be split into one or
// more radix nodes plus two leaves.
func (ix *Index) insertLeaf(l LeafOffset, it *nibbleIter, key []byte, value *uint64, link *LinkOffset) (Offset, error) {
	keyOffset, linkOffset, err := ix.leafKeyAndLinkOffset(l)
	if err != nil {
		return 0, err
	}

	storedKey, err := ix.keyContent(keyOffset)
	if err != nil {
		return 0, err
	}

	if bytes.Equal(storedKey, key) {
		newLeaf, err := ix.leafSetLink(l, ix.resolveLink(linkOffset, value, link))
		if err != nil {
			return 0, err
		}
		return Offset(newLeaf), nil
	}

	return ix.splitLeaf(l, storedKey, linkOffset, it, key, value, link)
}

// splitLeaf replaces a single leaf covering storedKey with a chain of radix
// nodes, one per nibble of the shared prefix beyond the iterator's current
// depth, ending in a radix node where storedKey and key's paths diverge (or
// where the shorter of the two keys ends). it.pos gives that starting
// depth; storedKey and key are independently indexed by nibble from there
// using nibbleAt, rather than advancing two iterators in lockstep.
func (ix *Index) splitLeaf(old LeafOffset, storedKey []byte, oldLink LinkOffset, it *nibbleIter, newKey []byte, value *uint64, link *LinkOffset) (Offset, error) {
	start := it.pos
	oldNibs := nibbleCount(storedKey)
	newNibs := nibbleCount(newKey)

	i := start
	for i < oldNibs && i < newNibs && nibbleAt(storedKey, i) == nibbleAt(newKey, i) {
		i++
	}

	finalLink := ix.resolveLink(0, value, link)

	// Reserve one radix node per shared-prefix nibble (start..i-1), created
	// outermost (shallowest, lowest dirty index) first, then the branching
	// node at depth i last (highest index). A parent node must always carry
	// a lower dirty index than any radix child it points to -- the same
	// invariant copy-on-write descent produces -- so flush can write dirty
	// radixes in reverse index order and always have already written the
	// radix a given entry references.
	wrapping := make([]RadixOffset, 0, i-start)
	for d := start; d < i; d++ {
		wrapping = append(wrapping, ix.radixCreate(memRadix{}))
	}

	var final memRadix
	switch {
	case i == oldNibs && i == newNibs:
		// storedKey == newKey would already have been handled by the
		// exact-match branch in insertLeaf.
		return 0, ErrCorruptData

	case i == oldNibs:
		// storedKey is a prefix of newKey: the old leaf's link becomes the
		// new radix node's own terminal link, newKey continues one nibble
		// deeper as a fresh leaf.
		newKeyOffset := ix.keyCreate(newKey)
		newLeaf := ix.leafCreate(finalLink, newKeyOffset)

		final.linkOffset = oldLink
		final.offsets[nibbleAt(newKey, i)] = Offset(newLeaf)

	case i == newNibs:
		// newKey is a prefix of storedKey: symmetric case. The existing
		// leaf is reused unchanged as the child one nibble deeper.
		final.linkOffset = finalLink
		final.offsets[nibbleAt(storedKey, i)] = Offset(old)

	default:
		// Both keys continue past the divergence point: two sibling leaves.
		newKeyOffset := ix.keyCreate(newKey)
		newLeaf := ix.leafCreate(finalLink, newKeyOffset)

		final.offsets[nibbleAt(storedKey, i)] = Offset(old)
		final.offsets[nibbleAt(newKey, i)] = Offset(newLeaf)
	}

	branchOffset := ix.radixCreate(final)

	chain := append(wrapping, branchOffset)
	for k := 0; k < len(chain)-1; k++ {
		nib := nibbleAt(newKey, start+k)
		ix.radixSetChild(chain[k], nib, Offset(chain[k+1]))
	}

	return Offset(chain[0]), nil
}
