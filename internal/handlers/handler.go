package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/llm"
	"github.com/snappy-loop/dearme/internal/models"
	"github.com/snappy-loop/dearme/internal/processor"
	"github.com/snappy-loop/dearme/internal/services"
)

// projectService is the subset of services.ProjectService used by handlers.
type projectService interface {
	Create(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	UpdateInput(ctx context.Context, id uuid.UUID, u models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExportAssets(ctx context.Context, id uuid.UUID) (*models.ExportResponse, error)
}

// episodeService is the subset of processor.EpisodeProcessor used by handlers.
type episodeService interface {
	GenerateEpisode(ctx context.Context, projectID uuid.UUID) (*processor.EpisodeResult, error)
	GenerateAudio(ctx context.Context, projectID uuid.UUID) (*processor.AudioResult, error)
}

// settingsStore mirrors settings.Store.
type settingsStore interface {
	Load(ctx context.Context) models.Settings
	Save(ctx context.Context, s models.Settings) error
}

// subscriber is the subscribe side of notify.Hub.
type subscriber interface {
	Subscribe() (<-chan models.Notification, func())
}

// HealthFunc reports backend readiness. May be nil.
type HealthFunc func(ctx context.Context) error

// Handler contains all HTTP handlers
type Handler struct {
	projects projectService
	episodes episodeService
	settings settingsStore
	events   subscriber
	health   HealthFunc
}

// NewHandler creates a new handler. events and health may be nil.
func NewHandler(projects projectService, episodes episodeService, settings settingsStore, events subscriber, health HealthFunc) *Handler {
	return &Handler{
		projects: projects,
		episodes: episodes,
		settings: settings,
		events:   events,
		health:   health,
	}
}

// Register mounts the public routes on r and the API on api. api is expected to carry the auth middleware.
func (h *Handler) Register(r, api *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api.HandleFunc("/projects", h.ListProjects).Methods("GET")
	api.HandleFunc("/projects", h.CreateProject).Methods("POST")
	api.HandleFunc("/projects/{id}", h.GetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", h.UpdateProject).Methods("PATCH")
	api.HandleFunc("/projects/{id}", h.DeleteProject).Methods("DELETE")
	api.HandleFunc("/projects/{id}/generate", h.GenerateEpisode).Methods("POST")
	api.HandleFunc("/projects/{id}/audio", h.GenerateAudio).Methods("POST")
	api.HandleFunc("/projects/{id}/audio.wav", h.DownloadAudio).Methods("GET")
	api.HandleFunc("/projects/{id}/export", h.ExportProject).Methods("POST")
	api.HandleFunc("/settings", h.GetSettings).Methods("GET")
	api.HandleFunc("/settings", h.SaveSettings).Methods("PUT")
	api.HandleFunc("/events", h.Events).Methods("GET")
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			writeJSONError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func projectID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

// writeServiceError maps service and provider errors to a status and a message safe to show users.
// providerMsg is used for adapter failures so provider detail and credentials never reach the client.
func writeServiceError(w http.ResponseWriter, err error, providerMsg string) {
	switch {
	case errors.Is(err, models.ErrProjectNotFound):
		writeJSONError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, services.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, processor.ErrNoScript), errors.Is(err, services.ErrNothingToExport):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrExportNotConfigured):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	case isProviderError(err) && providerMsg != "":
		writeJSONError(w, http.StatusBadGateway, providerMsg)
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func isProviderError(err error) bool {
	return llm.StageOf(err) != "" ||
		errors.Is(err, llm.ErrConfiguration) ||
		errors.Is(err, llm.ErrTransport) ||
		errors.Is(err, llm.ErrContract)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
