// Package artifact persists fitted models to disk. Writes go through a
// temporary file in the target directory followed by a rename, so a
// failed run never leaves a truncated artifact at the final path.
package artifact

import (
	"encoding"
	"fmt"
	"os"
	"path/filepath"
)

// Save encodes m and writes it to path, creating parent directories and
// overwriting any prior artifact.
func Save(path string, m encoding.BinaryMarshaler) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("artifact: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("artifact: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifact: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("artifact: rename to %s: %w", path, err)
	}
	return nil
}

// Load reads path and decodes it into m.
func Load(path string, m encoding.BinaryUnmarshaler) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("artifact: read %s: %w", path, err)
	}
	if err := m.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	return nil
}
