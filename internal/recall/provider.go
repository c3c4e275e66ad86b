// Package recall provides the optional semantic memory layer. Local writes
// are mirrored into a provider fire-and-forget; searches go to the provider
// when one is enabled and fall back to the event-log keyword scan otherwise.
package recall

import (
	"fmt"

	"github.com/hippo-mem/hippo/internal/domain"
)

const (
	ProviderNone   = "none"
	ProviderCloud  = "cloud"
	ProviderVector = "vector"
)

// CloudConfig configures the hosted recall provider.
type CloudConfig struct {
	BaseURL      string
	APIKey       string
	ContainerTag string
}

// NewCloudProvider creates the hosted recall provider.
// Returns an error if the URL or API key is missing.
func NewCloudProvider(cfg CloudConfig) (domain.RecallProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("RECALL_API_URL is required for cloud provider")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("RECALL_API_KEY is required for cloud provider")
	}
	return newCloudClient(cfg), nil
}

// NewVectorProvider creates the local Postgres+pgvector provider.
func NewVectorProvider(index domain.RecallIndex, embedder domain.EmbeddingClient) (domain.RecallProvider, error) {
	if index == nil {
		return nil, fmt.Errorf("recall index is required for vector provider")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedding client is required for vector provider")
	}
	return &vectorProvider{index: index, embedder: embedder}, nil
}

// NewNoopProvider creates the disabled provider.
func NewNoopProvider() domain.RecallProvider {
	return noopProvider{}
}
