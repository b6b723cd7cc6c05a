package testutil

import (
	"bufio"
	"os"
	"strconv"
	"testing"

	"github.com/ChristianF88/radixsort/keygen"
)

// GenerateTestKeyFile creates a temporary decimal key file holding numKeys
// LCG keys (seed 0) behind a comment header.
// Returns the file path and a cleanup function.
func GenerateTestKeyFile(t testing.TB, numKeys int) (string, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test_keys_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp key file: %v", err)
	}

	w := bufio.NewWriter(tmpFile)
	w.WriteString("# lcg keys, seed 0\n")
	g := keygen.NewLCG(0)
	buf := make([]byte, 0, 16)
	for i := 0; i < numKeys; i++ {
		buf = strconv.AppendUint(buf[:0], uint64(g.Next()), 10)
		buf = append(buf, '\n')
		w.Write(buf)
	}

	if err := w.Flush(); err != nil {
		t.Fatalf("Failed to write to temp key file: %v", err)
	}
	tmpFile.Close()

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}

	return tmpFile.Name(), cleanup
}

// TempFilePath returns a cross-platform temporary file path
// with the given pattern. Does not create the file.
func TempFilePath(t testing.TB, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path) // Remove immediately, just need the path

	return path
}
