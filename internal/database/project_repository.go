package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/snappy-loop/dearme/internal/models"
)

const projectColumns = `id, target, relationship, tone, topic, script, tagline, tags,
	cover_image_url, audio_data, created_at`

// ProjectRepository handles project persistence in PostgreSQL
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	var tags []string
	err := row.Scan(
		&p.ID, &p.Target, &p.Relationship, &p.Tone, &p.Topic,
		&p.Script, &p.Tagline, pq.Array(&tags), &p.CoverImageURL, &p.AudioData,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Target, p.Relationship, p.Tone, p.Topic,
		p.Script, p.Tagline, tagsArg(p.Tags), p.CoverImageURL, p.AudioData,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return p, nil
}

// List returns all projects, newest first
func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update applies a partial update inside a row-locking transaction and returns the stored project.
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, u models.ProjectUpdate) (*models.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 FOR UPDATE`
	p, err := scanProject(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	u.Apply(p)

	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET
			target = $2, relationship = $3, tone = $4, topic = $5,
			script = $6, tagline = $7, tags = $8, cover_image_url = $9, audio_data = $10
		WHERE id = $1`,
		p.ID, p.Target, p.Relationship, p.Tone, p.Topic,
		p.Script, p.Tagline, tagsArg(p.Tags), p.CoverImageURL, p.AudioData,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit project update: %w", err)
	}
	return p, nil
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}

// tagsArg stores nil tags as NULL so "never generated" survives a round trip.
func tagsArg(tags []string) any {
	if tags == nil {
		return nil
	}
	return pq.Array(tags)
}
