package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snappy-loop/dearme/internal/models"
	"github.com/snappy-loop/dearme/migrations"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(ctx, db.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestProjectRepository_Lifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	p := &models.Project{
		ID:           uuid.New(),
		Target:       "Alex",
		Relationship: models.RelationshipEstranged,
		Tone:         models.ToneMelancholic,
		Topic:        "losing touch after college",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { repo.Delete(context.Background(), p.ID) })

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Target != "Alex" || got.Script != nil || got.Tags != nil {
		t.Errorf("got %+v", got)
	}

	script := "Dear Alex,"
	updated, err := repo.Update(ctx, p.ID, models.ProjectUpdate{Script: &script, Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Script == nil || *updated.Script != script || len(updated.Tags) != 2 {
		t.Errorf("updated %+v", updated)
	}

	got, _ = repo.GetByID(ctx, p.ID)
	if got.Topic != p.Topic || len(got.Tags) != 2 {
		t.Errorf("partial update lost fields: %+v", got)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("get after delete: %v", err)
	}
	if _, err := repo.Update(ctx, p.ID, models.ProjectUpdate{Script: &script}); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("update after delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestSettingsRepository_Overwrite(t *testing.T) {
	db := testDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	s := models.DefaultSettings()
	s.Provider = models.ProviderOpenAI
	s.OpenAIAPIKey = "sk-1"
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	next := models.DefaultSettings()
	if err := repo.Save(ctx, next); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := repo.Load(ctx); got != next {
		t.Errorf("got %+v, want %+v", got, next)
	}
}
