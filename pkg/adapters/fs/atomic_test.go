package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "card.json")

	if err := os.WriteFile(filename, []byte("initial"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := writeFileAtomic(filename, []byte(`{"adapter":"card"}`), 0600); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}

	got, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(got) != `{"adapter":"card"}` {
		t.Errorf("unexpected content %q", got)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected perm 0600, got %v", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), TempFilePrefix) {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "absent", "card.json")
	if err := writeFileAtomic(filename, []byte("x"), 0644); err == nil {
		t.Fatal("expected error when the parent directory is missing")
	}
}
