package processor

import (
	"context"

	"github.com/google/uuid"
	"github.com/snappy-loop/dearme/internal/llm"
	"github.com/snappy-loop/dearme/internal/models"
)

// projectStore is the subset of services.ProjectService used by EpisodeProcessor.
type projectStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Apply(ctx context.Context, id uuid.UUID, u models.ProjectUpdate) (*models.Project, error)
}

// settingsLoader is the read side of settings.Store.
type settingsLoader interface {
	Load(ctx context.Context) models.Settings
}

// Providers resolves adapters from the current settings. *llm.Router implements it.
type Providers interface {
	Text(s models.Settings) llm.TextGenerator
	Cover(s models.Settings) llm.CoverGenerator
	Speech(s models.Settings) llm.SpeechSynthesizer
}

// Notifier receives user-facing status messages. May be nil.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// EventPublisher publishes generation outcomes (e.g. to Kafka). May be nil to skip publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, projectID uuid.UUID, event, outcome string) error
}
