package handlers

import (
	"errors"
	"net/http"

	"github.com/dcraven/sift/internal/service"
)

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Get serves the persona's training export. format=json (default) returns the
// full export document; format=dpo streams line-delimited DPO records.
func (h *ExportHandler) Get(w http.ResponseWriter, r *http.Request) {
	persona := r.URL.Query().Get("persona")
	format := r.URL.Query().Get("format")

	switch format {
	case "", "json":
		doc, err := h.svc.ExportScope(r.Context(), persona)
		if err != nil {
			if errors.Is(err, service.ErrPersonaMissing) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to build export")
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case "dpo":
		if persona == "" {
			writeError(w, http.StatusBadRequest, service.ErrPersonaMissing.Error())
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
		if err := h.svc.WriteDPO(r.Context(), persona, w); err != nil {
			// Headers are already sent; nothing to do but stop writing.
			return
		}

	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}
