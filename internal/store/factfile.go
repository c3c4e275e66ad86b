package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const factFileName = "MEMORY.md"

// FactFile is the file-backed fact store. The document is read and written
// whole so it stays human-editable and small enough to load into agent
// context at session start.
type FactFile struct {
	path string
	mu   sync.RWMutex
}

func NewFactFile(memoryDir string) *FactFile {
	return &FactFile{path: filepath.Join(memoryDir, factFileName)}
}

// Read returns the full fact document. A missing file means no memory yet
// and reads as "".
func (f *FactFile) Read(_ context.Context) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read fact file: %w", err)
	}
	return string(data), nil
}

// Write overwrites the fact document in place. The write goes through a
// temp file and rename so a crash never leaves a half-written document.
func (f *FactFile) Write(_ context.Context, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write fact file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace fact file: %w", err)
	}
	return nil
}

func (f *FactFile) Path() string {
	return f.path
}
