package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dcraven/sift/internal/domain"
	"github.com/dcraven/sift/internal/service"
	"github.com/go-chi/chi/v5"
)

type PersonaHandler struct {
	svc *service.PersonaService
}

func NewPersonaHandler(svc *service.PersonaService) *PersonaHandler {
	return &PersonaHandler{svc: svc}
}

type createPersonaRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	PositiveTags []string `json:"positive_tags,omitempty"`
	NegativeTags []string `json:"negative_tags,omitempty"`
	RedFlagTags  []string `json:"red_flag_tags,omitempty"`
}

func (h *PersonaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPersonaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &domain.Persona{
		Name:         req.Name,
		Description:  req.Description,
		PositiveTags: req.PositiveTags,
		NegativeTags: req.NegativeTags,
		RedFlagTags:  req.RedFlagTags,
	}

	if err := h.svc.Create(r.Context(), p); err != nil {
		if errors.Is(err, service.ErrPersonaNameMissing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create persona")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *PersonaHandler) List(w http.ResponseWriter, r *http.Request) {
	personas, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list personas")
		return
	}
	if personas == nil {
		personas = []domain.Persona{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"personas": personas})
}

func (h *PersonaHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	p, err := h.svc.GetByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrPersonaNotFound) {
			writeError(w, http.StatusNotFound, "persona not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get persona")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PersonaHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrPersonaNotFound) {
			writeError(w, http.StatusNotFound, "no active persona")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get active persona")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PersonaHandler) Activate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	p, err := h.svc.Activate(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPersonaNameMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPersonaNotFound):
			writeError(w, http.StatusNotFound, "persona not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to activate persona")
		}
		return
	}

	writeJSON(w, http.StatusOK, p)
}
