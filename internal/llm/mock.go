package llm

import (
	"context"
	"strings"

	"github.com/hippo-mem/hippo/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what Consolidate returns. When
// ConsolidateResponse is empty, the mock appends the event records to the
// fact document, which keeps consolidation runnable without a provider.
type MockClient struct {
	ConsolidateResponse string
	ConsolidateError    error

	// Call tracking for assertions
	ConsolidateCalls []struct {
		Facts  string
		Events []domain.Event
	}
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Consolidate(ctx context.Context, facts string, events []domain.Event) (string, error) {
	c.ConsolidateCalls = append(c.ConsolidateCalls, struct {
		Facts  string
		Events []domain.Event
	}{Facts: facts, Events: events})

	if c.ConsolidateError != nil {
		return "", c.ConsolidateError
	}
	if c.ConsolidateResponse != "" {
		return c.ConsolidateResponse, nil
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(facts))
	for _, e := range events {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + e.Content)
	}
	b.WriteString("\n")
	return b.String(), nil
}
