package handlers

import (
	"net/http"
	"strconv"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/service"
)

type OutboxHandler struct {
	store      domain.OutboxStore
	dispatcher *service.DispatcherService
}

func NewOutboxHandler(store domain.OutboxStore, dispatcher *service.DispatcherService) *OutboxHandler {
	return &OutboxHandler{store: store, dispatcher: dispatcher}
}

// List shows pending and parked entries, oldest first.
func (h *OutboxHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list outbox")
		return
	}
	if entries == nil {
		entries = []domain.OutboxEntry{}
	}

	pending, parked := 0, 0
	for _, e := range entries {
		if e.Parked() {
			parked++
		} else {
			pending++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"pending": pending,
		"parked":  parked,
	})
}

// Drain triggers an immediate dispatch pass outside the background schedule.
func (h *OutboxHandler) Drain(w http.ResponseWriter, r *http.Request) {
	batch := 0
	if q := r.URL.Query().Get("batch"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			batch = n
		}
	}

	dispatched, err := h.dispatcher.Drain(r.Context(), batch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "drain failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"dispatched": dispatched})
}
