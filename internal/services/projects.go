package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
)

// ErrValidation wraps user input that failed validation.
var ErrValidation = errors.New("validation error")

// ProjectService is the entity store façade used by handlers and the episode processor
type ProjectService struct {
	repo   ProjectRepository
	assets AssetStore
	now    func() time.Time
}

// NewProjectService creates a new ProjectService. assets may be nil to disable export.
func NewProjectService(repo ProjectRepository, assets AssetStore) *ProjectService {
	return &ProjectService{
		repo:   repo,
		assets: assets,
		now:    time.Now,
	}
}

// Create validates the premise and stores a new project with no generated fields.
func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	p := &models.Project{
		ID:           uuid.New(),
		Target:       in.Target,
		Relationship: in.Relationship,
		Tone:         in.Tone,
		Topic:        in.Topic,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Info().
		Str("project_id", p.ID.String()).
		Str("relationship", string(p.Relationship)).
		Str("tone", string(p.Tone)).
		Msg("Project created")
	return p, nil
}

// Get returns a project or models.ErrProjectNotFound.
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all projects, newest first.
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateInput edits the user-authored fields. Generated fields in u are ignored.
func (s *ProjectService) UpdateInput(ctx context.Context, id uuid.UUID, u models.ProjectUpdate) (*models.Project, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inputOnly := models.ProjectUpdate{
		Target:       u.Target,
		Relationship: u.Relationship,
		Tone:         u.Tone,
		Topic:        u.Topic,
	}
	merged := *current
	inputOnly.Apply(&merged)

	in := merged.Input().Normalize()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return s.repo.Update(ctx, id, models.ProjectUpdate{
		Target:       &in.Target,
		Relationship: &in.Relationship,
		Tone:         &in.Tone,
		Topic:        &in.Topic,
	})
}

// Apply writes generated fields. It is the only write path for script, tagline, tags, cover and audio.
func (s *ProjectService) Apply(ctx context.Context, id uuid.UUID, u models.ProjectUpdate) (*models.Project, error) {
	return s.repo.Update(ctx, id, u)
}

// Delete removes a project. Later reads and writes for id return models.ErrProjectNotFound.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("project_id", id.String()).Msg("Project deleted")
	return nil
}
