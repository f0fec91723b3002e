package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirectoryExists(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		path        string
		setup       func(t *testing.T)
		expectError bool
	}{
		{
			name: "current directory",
			path: "test.txt",
		},
		{
			name: "single directory",
			path: filepath.Join(tempDir, "public", "rss.xml"),
		},
		{
			name: "nested directories",
			path: filepath.Join(tempDir, "level1", "level2", "level3", "feed.json"),
		},
		{
			name: "directory already exists",
			path: filepath.Join(tempDir, "existing", "atom.xml"),
			setup: func(t *testing.T) {
				if err := os.MkdirAll(filepath.Join(tempDir, "existing"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "parent is a file",
			path: filepath.Join(tempDir, "file.txt", "rss.xml"),
			setup: func(t *testing.T) {
				if err := os.WriteFile(filepath.Join(tempDir, "file.txt"), []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}

			err := EnsureDirectoryExists(tt.path)
			if (err != nil) != tt.expectError {
				t.Fatalf("EnsureDirectoryExists(%q) error = %v, expectError = %v", tt.path, err, tt.expectError)
			}
			if tt.expectError {
				return
			}

			if dir := filepath.Dir(tt.path); dir != "." {
				info, err := os.Stat(dir)
				if err != nil || !info.IsDir() {
					t.Errorf("EnsureDirectoryExists(%q) did not create directory %q", tt.path, dir)
				}
			}
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "rss.xml")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temporary file left behind?)", len(entries))
	}
}

func TestWriteFileAtomic_Error(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(filepath.Join(blocker, "rss.xml"), []byte("data"), 0o644); err == nil {
		t.Error("WriteFileAtomic() expected error when the parent is a file")
	}
}
