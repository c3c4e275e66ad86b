package handlers

import (
	"errors"
	"net/http"

	"github.com/hippo-mem/hippo/internal/domain"
	"github.com/hippo-mem/hippo/internal/service"
)

type RecallHandler struct {
	svc *service.MemoryService
}

func NewRecallHandler(svc *service.MemoryService) *RecallHandler {
	return &RecallHandler{svc: svc}
}

type recallResponse struct {
	Results []domain.RecallResult `json:"results"`
	Query   string                `json:"query"`
	Source  service.SearchSource  `json:"source"`
	Count   int                   `json:"count"`
}

// Search answers from the semantic recall layer when enabled, the local
// keyword scan otherwise. The source field says which path served.
func (h *RecallHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit := parseLimit(r, service.DefaultSearchLimit)

	results, source, err := h.svc.Recall(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchQueryEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to recall memories")
		return
	}
	if results == nil {
		results = []domain.RecallResult{}
	}
	writeJSON(w, http.StatusOK, recallResponse{
		Results: results,
		Query:   query,
		Source:  source,
		Count:   len(results),
	})
}
