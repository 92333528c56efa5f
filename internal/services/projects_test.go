package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snappy-loop/dearme/internal/audio"
	"github.com/snappy-loop/dearme/internal/localstore"
	"github.com/snappy-loop/dearme/internal/models"
)

func newLocalService(t *testing.T, assets AssetStore) (*ProjectService, *localstore.Store) {
	t.Helper()
	kv, err := localstore.Open(filepath.Join(t.TempDir(), "studio.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewProjectService(NewLocalProjectRepository(kv), assets), kv
}

func alexInput() models.ProjectInput {
	return models.ProjectInput{
		Target:       "Alex",
		Relationship: models.RelationshipEstranged,
		Tone:         models.ToneMelancholic,
		Topic:        "losing touch after college",
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, _ := newLocalService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   models.ProjectInput
		want string
	}{
		{"empty target", models.ProjectInput{Target: "  ", Relationship: models.RelationshipBeloved, Tone: models.ToneDry, Topic: "x"}, "target is required"},
		{"empty topic", models.ProjectInput{Target: "Sam", Relationship: models.RelationshipBeloved, Tone: models.ToneDry}, "topic is required"},
		{"bad relationship", models.ProjectInput{Target: "Sam", Relationship: "frenemy", Tone: models.ToneDry, Topic: "x"}, "invalid relationship"},
		{"bad tone", models.ProjectInput{Target: "Sam", Relationship: models.RelationshipBeloved, Tone: "sarcastic", Topic: "x"}, "invalid tone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			if err == nil || !strings.Contains(err.Error(), tt.want) || !strings.HasPrefix(err.Error(), "validation error") {
				t.Errorf("got %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCreate_StartsWithoutGeneratedFields(t *testing.T) {
	svc, _ := newLocalService(t, nil)
	p, err := svc.Create(context.Background(), alexInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == uuid.Nil || p.CreatedAt.IsZero() {
		t.Errorf("id and created_at must be assigned: %+v", p)
	}
	if p.Script != nil || p.Tagline != nil || p.Tags != nil || p.CoverImageURL != nil || p.AudioData != nil {
		t.Errorf("generated fields must be absent: %+v", p)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newLocalService(t, nil)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		p, err := svc.Create(ctx, alexInput())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, p.ID)
	}

	projects, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 3 || projects[0].ID != ids[2] || projects[2].ID != ids[0] {
		t.Errorf("unexpected order")
	}
}

func TestUpdateInput_IgnoresGeneratedFields(t *testing.T) {
	svc, _ := newLocalService(t, nil)
	ctx := context.Background()
	p, _ := svc.Create(ctx, alexInput())

	topic := "  the wedding we both missed "
	injected := "Dear Alex, injected"
	got, err := svc.UpdateInput(ctx, p.ID, models.ProjectUpdate{Topic: &topic, Script: &injected})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Topic != "the wedding we both missed" {
		t.Errorf("topic %q", got.Topic)
	}
	if got.Script != nil {
		t.Error("UpdateInput must not write generated fields")
	}

	bad := models.Tone("sarcastic")
	if _, err := svc.UpdateInput(ctx, p.ID, models.ProjectUpdate{Tone: &bad}); err == nil {
		t.Error("expected validation error")
	}
}

func TestDelete_IsTerminal(t *testing.T) {
	svc, _ := newLocalService(t, nil)
	ctx := context.Background()
	p, _ := svc.Create(ctx, alexInput())

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("get after delete: %v", err)
	}
	script := "late"
	if _, err := svc.Apply(ctx, p.ID, models.ProjectUpdate{Script: &script}); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("apply after delete: %v", err)
	}
	if err := svc.Delete(ctx, p.ID); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestLocalRepository_PersistsUnderScenariosKey(t *testing.T) {
	svc, kv := newLocalService(t, nil)
	p, _ := svc.Create(context.Background(), alexInput())

	raw, ok := kv.Get(ProjectsKey)
	if !ok {
		t.Fatal("projects must be stored under " + ProjectsKey)
	}
	if !strings.Contains(string(raw), p.ID.String()) {
		t.Errorf("stored value %s", raw)
	}
}

type upload struct {
	key, contentType string
	data             []byte
}

type fakeAssets struct {
	publicBase string
	uploads    []upload
	err        error
}

func (f *fakeAssets) Upload(ctx context.Context, key string, data io.Reader, contentType string, contentLength int64) error {
	if f.err != nil {
		return f.err
	}
	b, _ := io.ReadAll(data)
	f.uploads = append(f.uploads, upload{key: key, contentType: contentType, data: b})
	return nil
}

func (f *fakeAssets) PublicURL(key string) string {
	if f.publicBase == "" {
		return ""
	}
	return f.publicBase + "/" + key
}

func (f *fakeAssets) GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func TestExportAssets(t *testing.T) {
	assets := &fakeAssets{}
	svc, _ := newLocalService(t, assets)
	ctx := context.Background()
	p, _ := svc.Create(ctx, alexInput())

	if _, err := svc.ExportAssets(ctx, p.ID); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}

	cover := "data:image/png;base64,AQID"
	pcm := audio.EncodePCM([]int16{1, -1, 2})
	if _, err := svc.Apply(ctx, p.ID, models.ProjectUpdate{CoverImageURL: &cover, AudioData: &pcm}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	resp, err := svc.ExportAssets(ctx, p.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(assets.uploads) != 2 {
		t.Fatalf("uploads %d", len(assets.uploads))
	}
	if assets.uploads[0].contentType != "image/png" || string(assets.uploads[0].data) != "\x01\x02\x03" {
		t.Errorf("cover upload %+v", assets.uploads[0])
	}
	if assets.uploads[1].contentType != "audio/wav" || len(assets.uploads[1].data) != 44+6 {
		t.Errorf("audio upload %s %d bytes", assets.uploads[1].contentType, len(assets.uploads[1].data))
	}
	if !strings.HasPrefix(resp.CoverURL, "https://signed.example/projects/") || !strings.HasSuffix(resp.AudioURL, "/reading.wav") {
		t.Errorf("urls %+v", resp)
	}
}

func TestExportAssets_URLCoverPassesThrough(t *testing.T) {
	assets := &fakeAssets{}
	svc, _ := newLocalService(t, assets)
	ctx := context.Background()
	p, _ := svc.Create(ctx, alexInput())

	cover := "https://cdn.example/covers/alex.png"
	pcm := audio.EncodePCM([]int16{1, -1, 2})
	if _, err := svc.Apply(ctx, p.ID, models.ProjectUpdate{CoverImageURL: &cover, AudioData: &pcm}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	resp, err := svc.ExportAssets(ctx, p.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if resp.CoverURL != cover {
		t.Errorf("cover url %q", resp.CoverURL)
	}
	if len(assets.uploads) != 1 || assets.uploads[0].contentType != "audio/wav" {
		t.Errorf("only the audio should be uploaded: %+v", assets.uploads)
	}
}

func TestExportAssets_NotConfigured(t *testing.T) {
	svc, _ := newLocalService(t, nil)
	_, err := svc.ExportAssets(context.Background(), uuid.New())
	if !errors.Is(err, ErrExportNotConfigured) || err.Error() != "asset export is not configured" {
		t.Fatalf("got %v", err)
	}
}
