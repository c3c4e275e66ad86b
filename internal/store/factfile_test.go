package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFactFileReadMissing(t *testing.T) {
	f := NewFactFile(t.TempDir())

	content, err := f.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "" {
		t.Errorf("expected empty content for missing file, got %q", content)
	}
}

func TestFactFileWriteReadRoundtrip(t *testing.T) {
	f := NewFactFile(t.TempDir())
	ctx := context.Background()

	if err := f.Write(ctx, "user likes coffee\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	content, err := f.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if content != "user likes coffee\n" {
		t.Errorf("expected roundtrip content, got %q", content)
	}
}

func TestFactFileOverwrite(t *testing.T) {
	f := NewFactFile(t.TempDir())
	ctx := context.Background()

	if err := f.Write(ctx, "first"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := f.Write(ctx, "second"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	content, err := f.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if content != "second" {
		t.Errorf("expected overwritten content, got %q", content)
	}
}

func TestFactFileWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	f := NewFactFile(dir)

	if err := f.Write(context.Background(), "data"); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "MEMORY.md.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind after write")
	}
}

func TestEnsureMemoryDir(t *testing.T) {
	workspace := t.TempDir()

	dir, err := EnsureMemoryDir(workspace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join(workspace, "memory") {
		t.Errorf("unexpected memory dir: %s", dir)
	}

	// Idempotent
	if _, err := EnsureMemoryDir(workspace); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
}

func TestEnsureMemoryDirRejectsFile(t *testing.T) {
	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, "memory"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := EnsureMemoryDir(workspace); err == nil {
		t.Error("expected error when memory path is a file")
	}
}
