package recall

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hippo-mem/hippo/internal/domain"
)

func newTestCloudClient(t *testing.T, handler http.HandlerFunc) *cloudClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return newCloudClient(CloudConfig{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		ContainerTag: "hippo_workspace",
	})
}

func TestCloudSyncPostsDocument(t *testing.T) {
	var got addDocumentRequest
	var auth string

	c := newTestCloudClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/documents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"doc-1"}`))
	})

	if err := c.Sync(context.Background(), "- user likes coffee\n", domain.SyncLongTerm); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("missing bearer auth, got %q", auth)
	}
	if got.ID == "" {
		t.Error("document ID not set")
	}
	if got.Content != "- user likes coffee\n" {
		t.Errorf("unexpected content: %q", got.Content)
	}
	if len(got.ContainerTags) != 1 || got.ContainerTags[0] != "hippo_workspace" {
		t.Errorf("unexpected container tags: %v", got.ContainerTags)
	}
	if got.Metadata["type"] != "long_term_memory" {
		t.Errorf("unexpected metadata type: %q", got.Metadata["type"])
	}
}

func TestCloudSyncHistoryKind(t *testing.T) {
	var got addDocumentRequest
	c := newTestCloudClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	if err := c.Sync(context.Background(), "[2026-02-15T10:00:00Z] did a thing", domain.SyncHistory); err != nil {
		t.Fatal(err)
	}
	if got.Metadata["type"] != "history" {
		t.Errorf("unexpected metadata type: %q", got.Metadata["type"])
	}
}

func TestCloudSyncErrorStatus(t *testing.T) {
	c := newTestCloudClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	if err := c.Sync(context.Background(), "data", domain.SyncLongTerm); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestCloudSearchParsesResults(t *testing.T) {
	var got searchRequest
	c := newTestCloudClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[
			{"content":"user prefers dark mode","score":0.91},
			{"content":"user lives in Berlin","score":0.84}
		]}`))
	})

	results, err := c.Search(context.Background(), "preferences", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if got.Query != "preferences" || got.Limit != 5 {
		t.Errorf("unexpected request: %+v", got)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Content != "user prefers dark mode" || results[0].Score != 0.91 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestCloudSearchChunkFallback(t *testing.T) {
	c := newTestCloudClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[
			{"score":0.8,"chunks":[{"content":""},{"content":"chunked content"}]},
			{"score":0.5,"chunks":[{"content":""}]}
		]}`))
	})

	results, err := c.Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result after dropping empty ones, got %d", len(results))
	}
	if results[0].Content != "chunked content" {
		t.Errorf("chunk fallback not applied: %q", results[0].Content)
	}
}

func TestCloudSearchRespectsLimit(t *testing.T) {
	c := newTestCloudClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[
			{"content":"one","score":0.9},
			{"content":"two","score":0.8},
			{"content":"three","score":0.7}
		]}`))
	})

	results, err := c.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected limit to cap results at 2, got %d", len(results))
	}
}

func TestCloudSearchAPIError(t *testing.T) {
	c := newTestCloudClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid container tag"}}`))
	})

	if _, err := c.Search(context.Background(), "query", 5); err == nil {
		t.Fatal("expected error from API error payload")
	}
}
