package handlers

import (
	"errors"
	"net/http"

	"github.com/hippo-mem/hippo/internal/service"
)

type ConsolidateHandler struct {
	svc *service.ConsolidationService
}

func NewConsolidateHandler(svc *service.ConsolidationService) *ConsolidateHandler {
	return &ConsolidateHandler{svc: svc}
}

// Trigger runs one consolidation pass immediately.
func (h *ConsolidateHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Consolidate(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrLLMNotConfigured) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "consolidation failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
