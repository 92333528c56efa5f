package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/snappy-loop/dearme/internal/localstore"
	"github.com/snappy-loop/dearme/internal/models"
)

// ProjectsKey is the local store key holding the project array.
const ProjectsKey = "dear_me_scenarios"

// LocalProjectRepository keeps every project in one JSON array inside the local store.
type LocalProjectRepository struct {
	mu sync.Mutex
	kv *localstore.Store
}

// NewLocalProjectRepository returns a repository backed by kv.
func NewLocalProjectRepository(kv *localstore.Store) *LocalProjectRepository {
	return &LocalProjectRepository{kv: kv}
}

func (r *LocalProjectRepository) load() ([]*models.Project, error) {
	raw, ok := r.kv.Get(ProjectsKey)
	if !ok || string(raw) == "null" {
		return []*models.Project{}, nil
	}
	var projects []*models.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse saved projects: %w", err)
	}
	return projects, nil
}

func (r *LocalProjectRepository) save(projects []*models.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	if err := r.kv.Set(ProjectsKey, data); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	return nil
}

func indexOf(projects []*models.Project, id uuid.UUID) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Create appends p.
func (r *LocalProjectRepository) Create(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return err
	}
	if indexOf(projects, p.ID) >= 0 {
		return fmt.Errorf("project %s already exists", p.ID)
	}
	return r.save(append(projects, p))
}

// GetByID returns the project with id.
func (r *LocalProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(projects, id)
	if i < 0 {
		return nil, models.ErrProjectNotFound
	}
	return projects[i], nil
}

// List returns all projects, newest first.
func (r *LocalProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// Update applies u to the stored project and returns it.
func (r *LocalProjectRepository) Update(ctx context.Context, id uuid.UUID, u models.ProjectUpdate) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(projects, id)
	if i < 0 {
		return nil, models.ErrProjectNotFound
	}
	u.Apply(projects[i])
	if err := r.save(projects); err != nil {
		return nil, err
	}
	return projects[i], nil
}

// Delete removes the project with id.
func (r *LocalProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf(projects, id)
	if i < 0 {
		return models.ErrProjectNotFound
	}
	return r.save(append(projects[:i], projects[i+1:]...))
}

var _ ProjectRepository = (*LocalProjectRepository)(nil)
