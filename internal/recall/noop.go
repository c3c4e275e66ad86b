package recall

import (
	"context"

	"github.com/hippo-mem/hippo/internal/domain"
)

// noopProvider is the disabled recall layer: syncs vanish and searches
// return nothing, leaving the caller on the local keyword path.
type noopProvider struct{}

func (noopProvider) Enabled() bool { return false }

func (noopProvider) Sync(ctx context.Context, content string, kind domain.SyncKind) error {
	return nil
}

func (noopProvider) Search(ctx context.Context, query string, limit int) ([]domain.RecallResult, error) {
	return nil, nil
}
