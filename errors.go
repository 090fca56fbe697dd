package baseindex

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by index operations. Wrap with fmt.Errorf("...: %w", ...)
// for call-site context; callers should match with errors.Is.
var (
	// ErrCorruptData is returned whenever an on-disk byte sequence does not match
	// the expected entry format: a tag mismatch, a VLQ that runs past the end of
	// the buffer, a jump-table entry that does not point at its child's VLQ, or a
	// root entry whose self-length does not check out.
	ErrCorruptData = errors.New("baseindex: corrupt data")

	// ErrPermissionDenied is returned by Flush when the index was opened read-only.
	ErrPermissionDenied = errors.New("baseindex: permission denied")

	// ErrUnexpectedEOF is returned by Flush when the file's length after the
	// append does not match what was written, meaning something else touched
	// the file during the locked critical section.
	ErrUnexpectedEOF = errors.New("baseindex: unexpected eof after flush")

	// ErrBrokenAppendOnly is returned by Clone when the duplicated file handle
	// maps a region shorter than the snapshot it is supposed to share.
	ErrBrokenAppendOnly = errors.New("baseindex: clone mapped a shorter file, append-only invariant violated")

	// ErrIOError wraps a failure surfaced by the underlying file, mmap, or
	// flock syscalls (open, stat, mmap, flock, read, write, dup). Callers
	// that want to distinguish an operating-system failure from a format or
	// permission problem should match on this with errors.Is; the original
	// *os.PathError / *fs.PathError / syscall.Errno remains reachable
	// through errors.Unwrap.
	ErrIOError = errors.New("baseindex: io error")
)

// wrapIOError tags err, if non-nil, as an ErrIOError with call-site context,
// preserving err itself for errors.Is/errors.As against the original cause.
func wrapIOError(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("baseindex: %s: %w: %w", context, ErrIOError, err)
}
