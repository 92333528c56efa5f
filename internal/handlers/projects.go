package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/audio"
	"github.com/snappy-loop/dearme/internal/models"
)

const maxBodyBytes = 1 << 20

// ListProjects handles GET /v1/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// CreateProject handles POST /v1/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.projects.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GetProject handles GET /v1/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProject handles PATCH /v1/projects/{id}. Only target, relationship, tone and topic are editable.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	var u models.ProjectUpdate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&u); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.projects.UpdateInput(r.Context(), id, u)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /v1/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadAudio handles GET /v1/projects/{id}/audio.wav
func (h *Handler) DownloadAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	if p.AudioData == nil || *p.AudioData == "" {
		writeJSONError(w, http.StatusNotFound, "project has no audio")
		return
	}

	pcm, err := audio.DecodeBase64(*p.AudioData)
	if err != nil {
		log.Error().Err(err).Str("project_id", id.String()).Msg("Stored audio is not valid base64")
		writeJSONError(w, http.StatusInternalServerError, "stored audio is unreadable")
		return
	}
	wav := audio.AsWAV(pcm)

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+id.String()+`.wav"`)
	w.WriteHeader(http.StatusOK)
	w.Write(wav)
}

// ExportProject handles POST /v1/projects/{id}/export
func (h *Handler) ExportProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	resp, err := h.projects.ExportAssets(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
