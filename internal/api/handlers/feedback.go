package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/service"
)

type FeedbackHandler struct {
	svc *service.LedgerService
}

func NewFeedbackHandler(svc *service.LedgerService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action == domain.ActionViewed {
		entry, err := h.svc.RecordView(r.Context(), req.Entity)
		if err != nil {
			if errors.Is(err, service.ErrEntityIDMissing) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to record view")
			return
		}
		writeJSON(w, http.StatusAccepted, entry)
		return
	}

	rec, err := h.svc.Record(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonaMissing),
			errors.Is(err, service.ErrEntityIDMissing),
			errors.Is(err, service.ErrInvalidAction):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record feedback")
		}
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

type createPairRequest struct {
	Persona    string `json:"persona"`
	ChosenID   string `json:"chosen_id"`
	RejectedID string `json:"rejected_id"`
	Reason     string `json:"reason,omitempty"`
}

func (h *FeedbackHandler) CreatePair(w http.ResponseWriter, r *http.Request) {
	var req createPairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.svc.RecordPair(r.Context(), req.Persona, req.ChosenID, req.RejectedID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonaMissing),
			errors.Is(err, service.ErrPairEntityMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record pair")
		}
		return
	}

	writeJSON(w, http.StatusCreated, pair)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	persona := r.URL.Query().Get("persona")

	records, err := h.svc.ListByPersona(r.Context(), persona)
	if err != nil {
		if errors.Is(err, service.ErrPersonaMissing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}
	if records == nil {
		records = []domain.FeedbackRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	persona := r.URL.Query().Get("persona")

	stats, err := h.svc.Stats(r.Context(), persona)
	if err != nil {
		if errors.Is(err, service.ErrPersonaMissing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
