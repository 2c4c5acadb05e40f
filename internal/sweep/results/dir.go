package results

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResetDir creates dir, or empties it when it already exists.
func ResetDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create results dir: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read results dir: %w", err)
	}

	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("clear results dir: %w", err)
		}
	}
	return nil
}
