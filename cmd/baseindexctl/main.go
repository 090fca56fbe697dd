// Command baseindexctl is a small operator tool for inspecting and writing
// to a baseindex file directly from the shell: get a key's values, insert
// values for a key (flushing them at once), list the keys in a range, or dump
// the raw entry stream for debugging.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/nova-submodules/baseindex"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log, err := baseindex.NewLogger("baseindexctl")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer log.Sync()

	cmd := os.Args[1]
	args := os.Args[2:]

	var runErr error
	switch cmd {
	case "get":
		runErr = runGet(args, log)
	case "insert":
		runErr = runInsert(args, log)
	case "scan":
		runErr = runScan(args, log)
	case "range":
		runErr = runRange(args, log)
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "baseindexctl:", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: baseindexctl <command> [arguments]

commands:
  get <file> <key>                 print every value stored for key
  insert <file> <key> <value> ...  append values to key and flush
  scan <file>                      dump every on-disk entry
  range <file> [start] [end]       list keys in [start, end]`)
}

func openFlagSet(name string) (*flag.FlagSet, *uint64) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	root := fs.Uint64("root", 0, "explicit root offset (0 = auto-detect from end of file)")
	return fs, root
}

func runGet(args []string, log *zap.SugaredLogger) error {
	fs, root := openFlagSet("get")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("get requires <file> <key>")
	}

	ix, err := baseindex.Open(rest[0], *root, baseindex.WithLogger(log))
	if err != nil {
		return err
	}
	defer ix.Close()

	head, err := ix.Get([]byte(rest[1]))
	if err != nil {
		return err
	}

	values, err := ix.Values(head)
	if err != nil {
		return err
	}

	if len(values) == 0 {
		fmt.Println("(not found)")
		return nil
	}
	for _, v := range values {
		fmt.Println(v)
	}
	return nil
}

func runInsert(args []string, log *zap.SugaredLogger) error {
	fs, root := openFlagSet("insert")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 3 {
		return fmt.Errorf("insert requires <file> <key> <value> [value...]")
	}

	ix, err := baseindex.Open(rest[0], *root, baseindex.WithLogger(log))
	if err != nil {
		return err
	}
	defer ix.Close()

	key := []byte(rest[1])
	for _, raw := range rest[2:] {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("value %q: %w", raw, err)
		}
		if err := ix.Insert(key, value); err != nil {
			return err
		}
	}

	newRoot, err := ix.Flush()
	if err != nil {
		return err
	}

	fmt.Printf("root=%d\n", newRoot)
	return nil
}

func runScan(args []string, log *zap.SugaredLogger) error {
	fs, root := openFlagSet("scan")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("scan requires <file>")
	}

	ix, err := baseindex.Open(rest[0], *root, baseindex.WithLogger(log))
	if err != nil {
		return err
	}
	defer ix.Close()

	entries, err := ix.DebugScan()
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%10d  %-6s  %s\n", e.Offset, e.Kind, e.Detail)
	}
	return nil
}

func runRange(args []string, log *zap.SugaredLogger) error {
	fs, root := openFlagSet("range")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 3 {
		return fmt.Errorf("range requires <file> [start] [end]")
	}

	ix, err := baseindex.Open(rest[0], *root, baseindex.WithLogger(log))
	if err != nil {
		return err
	}
	defer ix.Close()

	var start, end []byte
	if len(rest) >= 2 {
		start = []byte(rest[1])
	}
	if len(rest) == 3 {
		end = []byte(rest[2])
	}

	results, err := ix.Range(start, end)
	if err != nil {
		return err
	}

	for _, r := range results {
		values, err := ix.Values(r.Link)
		if err != nil {
			return err
		}
		fmt.Printf("%s => %v\n", r.Key, values)
	}
	return nil
}

