package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
)

// GetSettings handles GET /v1/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Load(r.Context()))
}

// SaveSettings handles PUT /v1/settings. The body replaces the stored settings; fields are not merged.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var s models.Settings
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&s); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}
	if err := h.settings.Save(r.Context(), s); err != nil {
		log.Error().Err(err).Msg("Failed to save settings")
		writeJSONError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}
