package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/snappy-loop/dearme/internal/models"
)

// ProjectRepository is the entity store contract shared by the Postgres and local backends.
// GetByID, Update and Delete return models.ErrProjectNotFound for unknown ids.
type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, u models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssetStore is the subset of S3 operations used for export. May be nil when export is not configured.
type AssetStore interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string, contentLength int64) error
	PublicURL(key string) string
	GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}
