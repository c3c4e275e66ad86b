package embedding

import (
	"context"
	"hash/fnv"
)

// MockClient returns deterministic pseudo-embeddings for testing and for
// running the vector provider without an API key.
type MockClient struct {
	Dimension int
	EmbedErr  error

	// Call tracking for assertions
	EmbedCalls []string
}

// NewMockClient sizes vectors to the recall index column so mock embeddings
// insert like real ones.
func NewMockClient() *MockClient {
	return &MockClient{Dimension: IndexDimension}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedErr != nil {
		return nil, c.EmbedErr
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, c.Dimension)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed>>33)%1000) / 1000
	}
	return vec, nil
}
