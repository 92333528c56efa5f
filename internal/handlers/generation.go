package handlers

import (
	"context"
	"net/http"

	"github.com/snappy-loop/dearme/internal/processor"
)

// GenerateEpisode handles POST /v1/projects/{id}/generate. The call blocks until text and cover settle.
// Provider calls run detached from the request, so a client disconnect does not abort them.
func (h *Handler) GenerateEpisode(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	res, err := h.episodes.GenerateEpisode(context.WithoutCancel(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, processor.MsgScriptFailed)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GenerateAudio handles POST /v1/projects/{id}/audio
func (h *Handler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	res, err := h.episodes.GenerateAudio(context.WithoutCancel(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, processor.MsgAudioFailed)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
