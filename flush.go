package baseindex

// Flush appends every staged entry to the backing file under an exclusive
// lock and returns the absolute file offset of the new root entry, which a
// caller can later pass to Open to reopen this exact snapshot. If the root
// radix is still on-disk -- nothing has been staged since the last Flush or
// since Open -- Flush returns 0 immediately without taking the lock or
// appending anything.
//
// Write order matters: keys, then links, then leafs, all in staging order,
// then radixes in REVERSE staging order, then the root. Links only ever
// reference earlier links (their chain's previous head) and leafs only
// reference already-written keys and links, so forward order resolves
// those. Radixes are the one kind that can reference another entry of the
// same kind with a higher staging index than itself -- see splitLeaf and
// insertRadix -- so only writing them back-to-front guarantees a radix's
// children are already on disk, and therefore already in the translation
// table, by the time that radix is encoded.
func (ix *Index) Flush() (uint64, error) {
	if !ix.root.radixOffset.IsDirty() {
		return 0, nil
	}

	if ix.readOnly {
		return 0, ErrPermissionDenied
	}

	if err := flockExclusive(ix.file); err != nil {
		return 0, wrapIOError("flock exclusive", err)
	}
	defer funlock(ix.file)

	info, err := ix.file.Stat()
	if err != nil {
		return 0, wrapIOError("stat", err)
	}
	baseLen := info.Size()

	t := make(translationTable)
	var out []byte
	pos := uint64(baseLen)

	if baseLen == 0 {
		out = append(out, tagHeader)
		pos++
	}

	for i, k := range ix.dirtyKeys {
		enc := encodeMemKey(k)
		t[uint64(Offset(keyOffsetFromDirtyIndex(i)))] = pos
		out = append(out, enc...)
		pos += uint64(len(enc))
	}

	for i, l := range ix.dirtyLinks {
		enc := encodeMemLink(l, t)
		t[uint64(Offset(linkOffsetFromDirtyIndex(i)))] = pos
		out = append(out, enc...)
		pos += uint64(len(enc))
	}

	for i, l := range ix.dirtyLeafs {
		enc := encodeMemLeaf(l, t)
		t[uint64(Offset(leafOffsetFromDirtyIndex(i)))] = pos
		out = append(out, enc...)
		pos += uint64(len(enc))
	}

	for i := len(ix.dirtyRadixes) - 1; i >= 0; i-- {
		enc := encodeMemRadix(ix.dirtyRadixes[i], t)
		t[uint64(Offset(radixOffsetFromDirtyIndex(i)))] = pos
		out = append(out, enc...)
		pos += uint64(len(enc))
	}

	rootPos := pos
	rootEnc := encodeMemRoot(ix.root, t)
	out = append(out, rootEnc...)
	pos += uint64(len(rootEnc))

	n, err := ix.file.Write(out)
	if err != nil {
		return 0, wrapIOError("write", err)
	}
	if n != len(out) {
		return 0, ErrUnexpectedEOF
	}

	info, err = ix.file.Stat()
	if err != nil {
		return 0, wrapIOError("stat", err)
	}
	if uint64(info.Size()) != pos {
		return 0, ErrUnexpectedEOF
	}

	if err := ix.buf.Unmap(); err != nil {
		return 0, wrapIOError("munmap", err)
	}
	newBuf, err := Map(ix.file, RDONLY, info.Size())
	if err != nil {
		return 0, wrapIOError("mmap", err)
	}
	ix.buf = newBuf

	newRoot, err := decodeMemRootFromEnd(ix.buf, uint64(info.Size()))
	if err != nil {
		return 0, err
	}
	ix.root = newRoot

	ix.dirtyRadixes = nil
	ix.dirtyLeafs = nil
	ix.dirtyLinks = nil
	ix.dirtyKeys = nil

	if ix.log != nil {
		ix.log.Debugw("baseindex: flush complete", "root_offset", rootPos, "bytes_appended", len(out))
	}

	return rootPos, nil
}
