package converters

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pgconvert/converters/common"
)

// WriteArtifact persists an artifact at path, creating the parent directory
// when absent. A failed write leaves the destination truncated at the point
// of failure; callers treat any returned error as fatal.
func WriteArtifact(artifact common.Artifact, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := artifact.WriteTo(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	slog.Debug("Wrote artifact", "path", path, "bytes", n)
	return nil
}
