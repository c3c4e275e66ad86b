package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hippo-mem/hippo/internal/service"
)

type MemoryHandler struct {
	svc *service.MemoryService
}

func NewMemoryHandler(svc *service.MemoryService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

type factDocumentResponse struct {
	Content string `json:"content"`
}

// Get returns the full fact document. "" means no memory yet.
func (h *MemoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	content, err := h.svc.ReadFacts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read memory")
		return
	}
	writeJSON(w, http.StatusOK, factDocumentResponse{Content: content})
}

type putFactsRequest struct {
	Content string `json:"content"`
}

// Put overwrites the fact document in place.
func (h *MemoryHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req putFactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.WriteFacts(r.Context(), req.Content); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write memory")
		return
	}
	writeJSON(w, http.StatusOK, factDocumentResponse{Content: req.Content})
}

type contextResponse struct {
	Context string `json:"context"`
}

// Context returns the memory block for the agent's system prompt.
func (h *MemoryHandler) Context(w http.ResponseWriter, r *http.Request) {
	block, err := h.svc.Context(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build memory context")
		return
	}
	writeJSON(w, http.StatusOK, contextResponse{Context: block})
}
