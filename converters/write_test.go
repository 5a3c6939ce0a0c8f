package converters

import (
	"os"
	"path/filepath"
	"testing"

	"pgconvert/converters/common"
)

func TestWriteArtifactCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

	if err := WriteArtifact(common.BytesArtifact("[]"), path); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(content) != "[]" {
		t.Errorf("Output = %q, want %q", content, "[]")
	}
}

func TestWriteArtifactUnwritablePath(t *testing.T) {
	// A regular file where a directory is needed makes the path unwritable.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteArtifact(common.BytesArtifact("data"), filepath.Join(blocker, "out.json"))
	if err == nil {
		t.Error("Expected error for unwritable destination")
	}
}
