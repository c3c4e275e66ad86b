package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hippo-mem/hippo/internal/recall"
	"github.com/hippo-mem/hippo/internal/service"
	"github.com/hippo-mem/hippo/internal/store"
)

func newTestService(t *testing.T) *service.MemoryService {
	t.Helper()
	dir := t.TempDir()
	return service.NewMemoryService(
		store.NewFactFile(dir),
		store.NewEventLog(dir),
		recall.NewNoopProvider(),
		zap.NewNop(),
	)
}

func TestMemoryPutThenGet(t *testing.T) {
	h := NewMemoryHandler(newTestService(t))

	put := httptest.NewRequest(http.MethodPut, "/v1/memory", strings.NewReader(`{"content":"- user likes coffee\n"}`))
	putRec := httptest.NewRecorder()
	h.Put(putRec, put)
	require.Equal(t, http.StatusOK, putRec.Code)

	get := httptest.NewRequest(http.MethodGet, "/v1/memory", nil)
	getRec := httptest.NewRecorder()
	h.Get(getRec, get)

	require.Equal(t, http.StatusOK, getRec.Code)
	assert.JSONEq(t, `{"content":"- user likes coffee\n"}`, getRec.Body.String())
}

func TestMemoryGetEmpty(t *testing.T) {
	h := NewMemoryHandler(newTestService(t))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/v1/memory", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"content":""}`, rec.Body.String())
}

func TestMemoryPutInvalidBody(t *testing.T) {
	h := NewMemoryHandler(newTestService(t))

	rec := httptest.NewRecorder()
	h.Put(rec, httptest.NewRequest(http.MethodPut, "/v1/memory", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemoryContextBlock(t *testing.T) {
	svc := newTestService(t)
	h := NewMemoryHandler(svc)

	put := httptest.NewRequest(http.MethodPut, "/v1/memory", strings.NewReader(`{"content":"- fact"}`))
	h.Put(httptest.NewRecorder(), put)

	rec := httptest.NewRecorder()
	h.Context(rec, httptest.NewRequest(http.MethodGet, "/v1/memory/context", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"context":"## Long-term Memory\n- fact"}`, rec.Body.String())
}

func TestHistoryAppendAndList(t *testing.T) {
	svc := newTestService(t)
	h := NewHistoryHandler(svc)

	post := httptest.NewRequest(http.MethodPost, "/v1/history", strings.NewReader(`{"content":"deployed staging"}`))
	postRec := httptest.NewRecorder()
	h.Append(postRec, post)
	require.Equal(t, http.StatusCreated, postRec.Code)
	assert.Contains(t, postRec.Body.String(), "deployed staging")

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestHistoryAppendEmptyContent(t *testing.T) {
	h := NewHistoryHandler(newTestService(t))

	rec := httptest.NewRecorder()
	h.Append(rec, httptest.NewRequest(http.MethodPost, "/v1/history", strings.NewReader(`{"content":"  "}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistorySearchRequiresQuery(t *testing.T) {
	h := NewHistoryHandler(newTestService(t))

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/v1/history/search", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistorySearchMatches(t *testing.T) {
	svc := newTestService(t)
	h := NewHistoryHandler(svc)

	for _, content := range []string{"deployed staging", "user asked about weather", "deployed production"} {
		post := httptest.NewRequest(http.MethodPost, "/v1/history", strings.NewReader(`{"content":"`+content+`"}`))
		h.Append(httptest.NewRecorder(), post)
	}

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/v1/history/search?query=deployed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
}

func TestConsolidateWithoutLLMConflict(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewMemoryService(
		store.NewFactFile(dir),
		store.NewEventLog(dir),
		recall.NewNoopProvider(),
		zap.NewNop(),
	)
	cons := service.NewConsolidationService(svc, store.NewEventLog(dir), store.NewCheckpointFile(dir), nil, zap.NewNop())
	h := NewConsolidateHandler(cons)

	rec := httptest.NewRecorder()
	h.Trigger(rec, httptest.NewRequest(http.MethodPost, "/v1/consolidate", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRecallFallsBackToHistory(t *testing.T) {
	svc := newTestService(t)

	post := httptest.NewRequest(http.MethodPost, "/v1/history", strings.NewReader(`{"content":"user moved to Berlin"}`))
	NewHistoryHandler(svc).Append(httptest.NewRecorder(), post)

	rec := httptest.NewRecorder()
	NewRecallHandler(svc).Search(rec, httptest.NewRequest(http.MethodGet, "/v1/recall?query=berlin", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"history"`)
	assert.Contains(t, rec.Body.String(), "user moved to Berlin")
}
