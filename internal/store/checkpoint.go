package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const checkpointFileName = ".checkpoint"

// CheckpointFile persists the consolidation high-water mark as a single
// RFC3339 timestamp.
type CheckpointFile struct {
	path string
	mu   sync.Mutex
}

func NewCheckpointFile(memoryDir string) *CheckpointFile {
	return &CheckpointFile{path: filepath.Join(memoryDir, checkpointFileName)}
}

// Load returns the stored mark, or the zero time when nothing has been
// consolidated yet.
func (c *CheckpointFile) Load(_ context.Context) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("read checkpoint: %w", err)
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse checkpoint: %w", err)
	}
	return t, nil
}

func (c *CheckpointFile) Save(_ context.Context, t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(t.UTC().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}
