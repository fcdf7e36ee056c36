package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/service"
)

type ScoreHandler struct {
	svc *service.ScoringService
}

func NewScoreHandler(svc *service.ScoringService) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

type scoreRequest struct {
	Persona string             `json:"persona,omitempty"`
	Entity  domain.EntityInput `json:"entity"`
}

func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.ScoreEntity(r.Context(), req.Persona, req.Entity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityIDMissing),
			errors.Is(err, service.ErrPersonaMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to score entity")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type similarRequest struct {
	Persona string             `json:"persona,omitempty"`
	Entity  domain.EntityInput `json:"entity"`
	Limit   int                `json:"limit,omitempty"`
}

func (h *ScoreHandler) Similar(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	matches, err := h.svc.SimilarLiked(r.Context(), req.Persona, req.Entity, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityIDMissing),
			errors.Is(err, service.ErrPersonaMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to find similar entities")
		}
		return
	}
	if matches == nil {
		matches = []domain.SimilarEntity{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}
