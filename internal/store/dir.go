package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureMemoryDir creates <workspace>/memory if it doesn't exist and
// returns its path.
func EnsureMemoryDir(workspace string) (string, error) {
	memoryDir := filepath.Join(workspace, "memory")

	info, err := os.Stat(memoryDir)
	if err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("memory path exists but is not a directory: %s", memoryDir)
		}
		return memoryDir, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat memory directory: %w", err)
	}

	if err := os.MkdirAll(memoryDir, 0o755); err != nil {
		return "", fmt.Errorf("create memory directory: %w", err)
	}
	return memoryDir, nil
}
