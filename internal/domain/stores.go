package domain

import (
	"context"
	"time"
)

// FactStore holds the curated long-term fact document. The document is
// always read and written whole; a missing document reads as "".
type FactStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
	Path() string
}

// EventLog is the append-only history of past interactions. Records are
// never mutated after Append.
type EventLog interface {
	Append(ctx context.Context, content string) (*Event, error)
	List(ctx context.Context, limit int) ([]Event, error)
	Search(ctx context.Context, query string, limit int) ([]Event, error)
	Path() string
}

// CheckpointStore records the consolidation high-water mark: the timestamp
// of the newest event already folded into the fact document.
type CheckpointStore interface {
	Load(ctx context.Context) (time.Time, error)
	Save(ctx context.Context, t time.Time) error
}

// RecallProvider is the optional semantic layer. Sync mirrors written
// content into it; Search answers semantic queries. A disabled provider
// reports Enabled() == false and returns no results.
type RecallProvider interface {
	Enabled() bool
	Sync(ctx context.Context, content string, kind SyncKind) error
	Search(ctx context.Context, query string, limit int) ([]RecallResult, error)
}

// RecallIndex is the storage backend for the local vector recall provider.
type RecallIndex interface {
	Add(ctx context.Context, content string, kind SyncKind, embedding []float32) error
	Search(ctx context.Context, embedding []float32, limit int) ([]RecallResult, error)
}

// EmbeddingClient turns text into a vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLMClient rewrites the fact document with a batch of aged events folded
// in. The returned document replaces the current one.
type LLMClient interface {
	Consolidate(ctx context.Context, facts string, events []Event) (string, error)
}
