package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hippo-mem/hippo/internal/domain"
	"github.com/hippo-mem/hippo/internal/service"
)

type HistoryHandler struct {
	svc *service.MemoryService
}

func NewHistoryHandler(svc *service.MemoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

type appendEventRequest struct {
	Content string `json:"content"`
}

func (h *HistoryHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req appendEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.svc.AppendEvent(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrEventContentEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to append event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

type eventListResponse struct {
	Events []domain.Event `json:"events"`
	Count  int            `json:"count"`
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 0)

	events, err := h.svc.ListHistory(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, eventListResponse{Events: events, Count: len(events)})
}

type searchResponse struct {
	Events []domain.Event `json:"events"`
	Query  string         `json:"query"`
	Count  int            `json:"count"`
}

func (h *HistoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit := parseLimit(r, service.DefaultSearchLimit)

	events, err := h.svc.SearchHistory(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchQueryEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to search events")
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Events: events, Query: query, Count: len(events)})
}

func parseLimit(r *http.Request, fallback int) int {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return fallback
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
