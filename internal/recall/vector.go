package recall

import (
	"context"
	"fmt"

	"github.com/hippo-mem/hippo/internal/domain"
)

// vectorProvider keeps the semantic layer local: content is embedded and
// stored in the Postgres recall index, searches are cosine lookups.
type vectorProvider struct {
	index    domain.RecallIndex
	embedder domain.EmbeddingClient
}

func (p *vectorProvider) Enabled() bool { return true }

func (p *vectorProvider) Sync(ctx context.Context, content string, kind domain.SyncKind) error {
	emb, err := p.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed for recall index: %w", err)
	}
	return p.index.Add(ctx, content, kind, emb)
}

func (p *vectorProvider) Search(ctx context.Context, query string, limit int) ([]domain.RecallResult, error) {
	if limit <= 0 {
		limit = 5
	}
	emb, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed recall query: %w", err)
	}
	return p.index.Search(ctx, emb, limit)
}
