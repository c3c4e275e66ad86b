package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/hippo-mem/hippo/internal/domain"
	"github.com/hippo-mem/hippo/internal/embedding"
)

// fakeIndex implements domain.RecallIndex in memory.
type fakeIndex struct {
	addErr  error
	results []domain.RecallResult

	added []struct {
		Content string
		Kind    domain.SyncKind
	}
	searchLimit int
}

func (f *fakeIndex) Add(ctx context.Context, content string, kind domain.SyncKind, emb []float32) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, struct {
		Content string
		Kind    domain.SyncKind
	}{content, kind})
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, emb []float32, limit int) ([]domain.RecallResult, error) {
	f.searchLimit = limit
	return f.results, nil
}

func TestVectorSyncEmbedsAndIndexes(t *testing.T) {
	index := &fakeIndex{}
	p := &vectorProvider{index: index, embedder: embedding.NewMockClient()}

	if err := p.Sync(context.Background(), "user likes coffee", domain.SyncLongTerm); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if len(index.added) != 1 {
		t.Fatalf("expected 1 indexed document, got %d", len(index.added))
	}
	if index.added[0].Content != "user likes coffee" || index.added[0].Kind != domain.SyncLongTerm {
		t.Errorf("unexpected indexed document: %+v", index.added[0])
	}
}

func TestVectorSyncEmbedError(t *testing.T) {
	embedder := embedding.NewMockClient()
	embedder.EmbedErr = errors.New("embedding service down")
	p := &vectorProvider{index: &fakeIndex{}, embedder: embedder}

	if err := p.Sync(context.Background(), "data", domain.SyncHistory); err == nil {
		t.Fatal("expected embed error to propagate")
	}
}

func TestVectorSearchDefaultLimit(t *testing.T) {
	index := &fakeIndex{results: []domain.RecallResult{{Content: "match", Score: 0.9}}}
	p := &vectorProvider{index: index, embedder: embedding.NewMockClient()}

	results, err := p.Search(context.Background(), "query", 0)
	if err != nil {
		t.Fatal(err)
	}
	if index.searchLimit != 5 {
		t.Errorf("expected default limit 5, got %d", index.searchLimit)
	}
	if len(results) != 1 || results[0].Content != "match" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestNoopProviderDisabled(t *testing.T) {
	p := NewNoopProvider()

	if p.Enabled() {
		t.Error("noop provider must report disabled")
	}
	if err := p.Sync(context.Background(), "data", domain.SyncLongTerm); err != nil {
		t.Errorf("noop sync should be a no-op, got %v", err)
	}
	results, err := p.Search(context.Background(), "query", 5)
	if err != nil || results != nil {
		t.Errorf("noop search should return nothing, got %v, %v", results, err)
	}
}

func TestNewCloudProviderValidation(t *testing.T) {
	if _, err := NewCloudProvider(CloudConfig{APIKey: "k"}); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := NewCloudProvider(CloudConfig{BaseURL: "https://api.example.com"}); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewCloudProvider(CloudConfig{BaseURL: "https://api.example.com", APIKey: "k", ContainerTag: "ws"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewVectorProviderValidation(t *testing.T) {
	if _, err := NewVectorProvider(nil, embedding.NewMockClient()); err == nil {
		t.Error("expected error for missing index")
	}
	if _, err := NewVectorProvider(&fakeIndex{}, nil); err == nil {
		t.Error("expected error for missing embedder")
	}
}
