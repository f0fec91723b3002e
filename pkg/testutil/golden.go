// Package testutil provides golden file testing utilities.
package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// contextBytes is how much output is shown around the first mismatch
const contextBytes = 40

// GoldenPath returns the path of the golden file called name in the package testdata directory
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// CompareGolden compares actual byte for byte with testdata/<name>.golden.
// If the -update flag is provided, it rewrites the golden file instead.
func CompareGolden(t *testing.T, name string, actual []byte) {
	t.Helper()

	goldenPath := GoldenPath(name)
	if *update {
		updateGoldenFile(t, goldenPath, actual)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", goldenPath, err)
	}

	if !bytes.Equal(actual, expected) {
		t.Errorf("Golden file mismatch for %s\n%s", goldenPath, firstDifference(expected, actual))
	}
}

// firstDifference describes where two outputs start to differ
func firstDifference(expected, actual []byte) string {
	n := min(len(expected), len(actual))
	offset := n
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			offset = i
			break
		}
	}

	start := max(offset-contextBytes, 0)
	return fmt.Sprintf("first difference at byte %d (expected %d bytes, got %d)\nExpected: ...%s\nActual:   ...%s",
		offset, len(expected), len(actual),
		expected[start:min(offset+contextBytes, len(expected))],
		actual[start:min(offset+contextBytes, len(actual))])
}

// updateGoldenFile updates the golden file with the actual output.
func updateGoldenFile(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()

	dir := filepath.Dir(goldenPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(goldenPath, actual, 0o644); err != nil {
		t.Fatalf("Failed to update golden file %s: %v", goldenPath, err)
	}
	t.Logf("Updated golden file: %s", goldenPath)
}
