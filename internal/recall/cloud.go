package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hippo-mem/hippo/internal/domain"
)

// cloudClient talks to a hosted recall service. Documents are tagged with
// the configured container tag so one deployment can serve many workspaces.
type cloudClient struct {
	baseURL      string
	apiKey       string
	containerTag string
	httpClient   *http.Client
}

func newCloudClient(cfg CloudConfig) *cloudClient {
	return &cloudClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		containerTag: cfg.ContainerTag,
		httpClient:   &http.Client{},
	}
}

func (c *cloudClient) Enabled() bool { return true }

type addDocumentRequest struct {
	ID            string            `json:"id"`
	Content       string            `json:"content"`
	ContainerTags []string          `json:"containerTags"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func (c *cloudClient) Sync(ctx context.Context, content string, kind domain.SyncKind) error {
	body, err := json.Marshal(addDocumentRequest{
		ID:            uuid.NewString(),
		Content:       content,
		ContainerTags: []string{c.containerTag},
		Metadata:      map[string]string{"type": string(kind)},
	})
	if err != nil {
		return fmt.Errorf("marshal add request: %w", err)
	}

	if _, err := c.post(ctx, "/v3/documents", body); err != nil {
		return err
	}
	return nil
}

type searchRequest struct {
	Query         string   `json:"q"`
	ContainerTags []string `json:"containerTags"`
	Limit         int      `json:"limit,omitempty"`
}

type searchResponse struct {
	Results []struct {
		Content string  `json:"content"`
		Score   float32 `json:"score"`
		Chunks  []struct {
			Content string `json:"content"`
		} `json:"chunks"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Search queries the hosted service. Results carry content either at the
// top level or inside chunks; the first non-empty chunk stands in when the
// top level is empty.
func (c *cloudClient) Search(ctx context.Context, query string, limit int) ([]domain.RecallResult, error) {
	if limit <= 0 {
		limit = 5
	}

	body, err := json.Marshal(searchRequest{
		Query:         query,
		ContainerTags: []string{c.containerTag},
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	respBody, err := c.post(ctx, "/v3/search", body)
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("recall API error: %s", result.Error.Message)
	}

	var results []domain.RecallResult
	for _, r := range result.Results {
		if len(results) >= limit {
			break
		}
		content := r.Content
		if content == "" {
			for _, chunk := range r.Chunks {
				if chunk.Content != "" {
					content = chunk.Content
					break
				}
			}
		}
		if content == "" {
			continue
		}
		results = append(results, domain.RecallResult{Content: content, Score: r.Score})
	}
	return results, nil
}

func (c *cloudClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create recall request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recall request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read recall response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("recall API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
