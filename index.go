// Package baseindex implements an append-only, persistent, insertion-only
// index mapping byte-string keys to linked lists of 64-bit values.
//
// The index is backed by a single file that is memory-mapped read-only for
// lookups and extended by appending new entries, under an exclusive file
// lock, during Flush. Previously written bytes are never rewritten or
// truncated, which gives lock-free concurrent readers and stable snapshots
// through retained root offsets.
package baseindex

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Index holds the memory-mapped view of a single index file plus all
// pending (not yet flushed) writes.
type Index struct {
	file     *os.File
	buf      MMap
	readOnly bool

	// root is always in-memory; it points at either a staged or an
	// on-disk radix entry.
	root memRoot

	dirtyRadixes []memRadix
	dirtyLeafs   []memLeaf
	dirtyLinks   []memLink
	dirtyKeys    []memKey

	log *zap.SugaredLogger
}

// Option configures an Index at Open time.
type Option func(*Index)

// WithLogger attaches a structured logger used for operational diagnostics.
// Only Flush logs through it, one debug-level line on completion; Open, lock
// acquisition and the hot read/insert path never log.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(ix *Index) { ix.log = l }
}

// Open opens path as read-write, falling back to read-only if that fails
// (the index always accepts writes in memory; read-only only affects
// Flush). If rootOffset is 0, the root is located automatically: from an
// empty dirty radix for a fresh file, or by reading backward from the end
// of an existing one. If rootOffset is non-zero, the root is read from
// that exact byte offset -- the caller's responsibility to have obtained it
// from a prior Flush.
func Open(path string, rootOffset uint64, opts ...Option) (*Index, error) {
	file, readOnly, err := openIndexFile(path)
	if err != nil {
		return nil, wrapIOError(fmt.Sprintf("open %s", path), err)
	}

	ix := &Index{file: file, readOnly: readOnly}
	for _, opt := range opts {
		opt(ix)
	}

	if err := ix.initializeRoot(rootOffset); err != nil {
		file.Close()
		return nil, err
	}

	return ix, nil
}

func openIndexFile(path string) (file *os.File, readOnly bool, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err == nil {
		return f, false, nil
	}

	f, roErr := os.OpenFile(path, os.O_RDONLY, 0)
	if roErr != nil {
		return nil, false, err
	}

	return f, true, nil
}

// initializeRoot determines the current root and mmaps the file, following
// the locking discipline of section 5: a shared lock is held only while the
// length that decides the root's location is read, to avoid racing a
// concurrent flush mid-append.
func (ix *Index) initializeRoot(rootOffset uint64) error {
	if rootOffset != 0 {
		info, err := ix.file.Stat()
		if err != nil {
			return wrapIOError("stat", err)
		}

		buf, err := Map(ix.file, RDONLY, info.Size())
		if err != nil {
			return wrapIOError("mmap", err)
		}
		ix.buf = buf

		root, err := decodeMemRoot(ix.buf, int(rootOffset))
		if err != nil {
			return err
		}
		ix.root = root
		return nil
	}

	if err := flockShared(ix.file); err != nil {
		return wrapIOError("flock shared", err)
	}

	info, statErr := ix.file.Stat()
	var length int64
	if statErr == nil {
		length = info.Size()
	}

	var buf MMap
	var mmapErr error
	if statErr == nil {
		buf, mmapErr = Map(ix.file, RDONLY, length)
	}

	unlockErr := funlock(ix.file)

	if statErr != nil {
		return wrapIOError("stat", statErr)
	}
	if mmapErr != nil {
		return wrapIOError("mmap", mmapErr)
	}
	if unlockErr != nil {
		return wrapIOError("funlock", unlockErr)
	}

	ix.buf = buf

	if length == 0 {
		ix.dirtyRadixes = []memRadix{{}}
		ix.root = memRoot{radixOffset: radixOffsetFromDirtyIndex(0)}
		return nil
	}

	root, err := decodeMemRootFromEnd(ix.buf, uint64(length))
	if err != nil {
		return err
	}
	ix.root = root
	return nil
}

// Close unmaps the file and closes the underlying descriptor.
func (ix *Index) Close() error {
	if err := ix.buf.Unmap(); err != nil {
		return wrapIOError("munmap", err)
	}
	if err := ix.file.Close(); err != nil {
		return wrapIOError("close", err)
	}
	return nil
}

// Remove closes the index and deletes its backing file.
func (ix *Index) Remove() error {
	name := ix.file.Name()
	if err := ix.Close(); err != nil {
		return err
	}
	if err := os.Remove(name); err != nil {
		return wrapIOError("remove", err)
	}
	return nil
}

// FileSize returns the current on-disk file size in bytes.
func (ix *Index) FileSize() (int64, error) {
	info, err := ix.file.Stat()
	if err != nil {
		return 0, wrapIOError("stat", err)
	}
	return info.Size(), nil
}

// Clone returns an independent handle sharing the same file and the same
// in-memory staged state as ix. The clone's mapping must cover at least as
// much of the file as ix's does; a shorter mapping would mean the append-only
// invariant was somehow broken between duplicating the descriptor and
// remapping it, and is reported as ErrBrokenAppendOnly.
func (ix *Index) Clone() (*Index, error) {
	dupFile, err := duplicateFile(ix.file)
	if err != nil {
		return nil, wrapIOError("dup", err)
	}

	info, err := dupFile.Stat()
	if err != nil {
		dupFile.Close()
		return nil, wrapIOError("stat", err)
	}

	buf, err := Map(dupFile, RDONLY, info.Size())
	if err != nil {
		dupFile.Close()
		return nil, wrapIOError("mmap", err)
	}

	if len(buf) < len(ix.buf) {
		buf.Unmap()
		dupFile.Close()
		return nil, ErrBrokenAppendOnly
	}

	clone := &Index{
		file:         dupFile,
		buf:          buf,
		readOnly:     ix.readOnly,
		root:         ix.root,
		dirtyRadixes: append([]memRadix(nil), ix.dirtyRadixes...),
		dirtyLeafs:   append([]memLeaf(nil), ix.dirtyLeafs...),
		dirtyLinks:   append([]memLink(nil), ix.dirtyLinks...),
		dirtyKeys:    cloneDirtyKeys(ix.dirtyKeys),
		log:          ix.log,
	}

	return clone, nil
}

// duplicateFile returns an independent *os.File sharing the same underlying
// open file description as f (so the same flock state), via dup(2).
func duplicateFile(f *os.File) (*os.File, error) {
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}

func cloneDirtyKeys(keys []memKey) []memKey {
	if keys == nil {
		return nil
	}

	out := make([]memKey, len(keys))
	for i, k := range keys {
		cp := make([]byte, len(k.key))
		copy(cp, k.key)
		out[i] = memKey{key: cp}
	}
	return out
}
