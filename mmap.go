package baseindex

import (
	"os"

	"golang.org/x/sys/unix"
)

// MMap is the byte-slice view of a memory-mapped file. The index only ever
// maps a file read-only: lookups read through it directly, and a flush never
// writes through the mapping -- it appends to the file and then remaps.
type MMap []byte

// RDONLY is the only mapping mode this index uses, kept as a named constant
// in the style of a conventional mmap wrapper's flag set.
const RDONLY = 0

// Map memory-maps the first size bytes of f read-only. size must not exceed
// the file's actual length. A size of 0 yields an empty, unmapped MMap.
func Map(f *os.File, mode int, size int64) (MMap, error) {
	if size == 0 {
		return MMap{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return MMap(data), nil
}

// Unmap releases the mapping.
func (m MMap) Unmap() error {
	if len(m) == 0 {
		return nil
	}
	return unix.Munmap([]byte(m))
}

// flockShared takes a shared (read) advisory lock on f, blocking until available.
func flockShared(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_SH)
}

// flockExclusive takes an exclusive (write) advisory lock on f, blocking until available.
func flockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// funlock releases an advisory lock taken by flockShared/flockExclusive.
func funlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
