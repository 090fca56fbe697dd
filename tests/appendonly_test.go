package baseindextests

import (
	"bytes"
	"os"
	"testing"
)

// TestReopenAtRootOffset covers property 3: reopening the same file with an
// explicit root offset returned by Flush sees the same mapping as the
// handle that produced it.
func TestReopenAtRootOffset(t *testing.T) {
	path := newIndexPath(t)
	ix := mustOpen(t, path, 0)

	for i, key := range []string{"one", "two", "three"} {
		if err := ix.Insert([]byte(key), uint64(i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	root, err := ix.Flush()
	if err != nil {
		t.Fatalf("flush: %v", err)
	}

	reopened := mustOpen(t, path, root)
	for i, key := range []string{"one", "two", "three"} {
		if got := headValue(t, reopened, []byte(key)); got != uint64(i) {
			t.Errorf("key %q: got %d, want %d", key, got, i)
		}
	}
}

// TestFlushNeverRewritesPriorBytes covers property 4: a second flush cycle
// never rewrites the bytes laid down by an earlier one.
func TestFlushNeverRewritesPriorBytes(t *testing.T) {
	path := newIndexPath(t)
	ix := mustOpen(t, path, 0)

	if err := ix.Insert([]byte("first"), 1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := ix.Flush(); err != nil {
		t.Fatalf("first flush: %v", err)
	}

	preBytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	preLen := len(preBytes)

	if err := ix.Insert([]byte("second"), 2); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := ix.Flush(); err != nil {
		t.Fatalf("second flush: %v", err)
	}

	postBytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	if len(postBytes) < preLen {
		t.Fatalf("file shrank after second flush: %d -> %d", preLen, len(postBytes))
	}
	if !bytes.Equal(preBytes, postBytes[:preLen]) {
		t.Errorf("bytes [0, %d) changed after second flush", preLen)
	}
}

// TestFlushNoOpWhenNothingStaged covers the Flush precondition: calling it
// again with no staged writes since the last Flush returns 0 and appends no
// bytes, rather than writing a redundant root entry.
func TestFlushNoOpWhenNothingStaged(t *testing.T) {
	path := newIndexPath(t)
	ix := mustOpen(t, path, 0)

	if err := ix.Insert([]byte("only"), 1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	root, err := ix.Flush()
	if err != nil {
		t.Fatalf("first flush: %v", err)
	}
	if root == 0 {
		t.Fatalf("first flush: expected a non-zero root offset")
	}

	sizeBefore, err := ix.FileSize()
	if err != nil {
		t.Fatalf("file size: %v", err)
	}

	second, err := ix.Flush()
	if err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if second != 0 {
		t.Errorf("second flush: got root offset %d, want 0 (nothing staged)", second)
	}

	sizeAfter, err := ix.FileSize()
	if err != nil {
		t.Fatalf("file size: %v", err)
	}
	if sizeAfter != sizeBefore {
		t.Errorf("file size changed on a no-op flush: %d -> %d", sizeBefore, sizeAfter)
	}
}
