package baseindextests

import (
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/nova-submodules/baseindex"
)

// newIndexPath returns a fresh, non-existent path inside a per-test
// temporary directory that baseindex.Open can create.
func newIndexPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "index.base16")
}

// randomKey returns length random bytes restricted to lowercase letters, so
// printed test failures stay readable.
func randomKey(t *testing.T, length int) []byte {
	t.Helper()

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("randomKey: %v", err)
	}
	for i := range buf {
		buf[i] = 'a' + (buf[i] % 26)
	}
	return buf
}

// mustOpen opens path, failing the test on error, and registers Close on
// cleanup.
func mustOpen(t *testing.T, path string, rootOffset uint64) *baseindex.Index {
	t.Helper()

	ix, err := baseindex.Open(path, rootOffset)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

// headValue returns the single most-recent value stored at key, failing the
// test if key is absent.
func headValue(t *testing.T, ix *baseindex.Index, key []byte) uint64 {
	t.Helper()

	head, err := ix.Get(key)
	if err != nil {
		t.Fatalf("get %q: %v", key, err)
	}
	if head.IsNull() {
		t.Fatalf("get %q: not found", key)
	}

	values, err := ix.Values(head)
	if err != nil {
		t.Fatalf("values for %q: %v", key, err)
	}
	if len(values) == 0 {
		t.Fatalf("values for %q: empty chain behind a non-null head", key)
	}
	return values[0]
}
