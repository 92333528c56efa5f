package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/audio"
	"github.com/snappy-loop/dearme/internal/models"
)

var (
	// ErrExportNotConfigured is returned by ExportAssets when no asset store is wired.
	ErrExportNotConfigured = errors.New("asset export is not configured")
	// ErrNothingToExport is returned when the project has neither cover nor audio.
	ErrNothingToExport = errors.New("project has no generated assets")
)

const presignExpiry = time.Hour

// ExportAssets uploads the cover as its image type and the audio as WAV, and returns fetch URLs.
// A cover that is a plain URL rather than a data URI is returned as is.
func (s *ProjectService) ExportAssets(ctx context.Context, id uuid.UUID) (*models.ExportResponse, error) {
	if s.assets == nil {
		return nil, ErrExportNotConfigured
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hasCover := p.CoverImageURL != nil && *p.CoverImageURL != ""
	hasAudio := p.AudioData != nil && *p.AudioData != ""
	if !hasCover && !hasAudio {
		return nil, ErrNothingToExport
	}

	resp := &models.ExportResponse{ProjectID: p.ID}

	switch {
	case hasCover && !strings.HasPrefix(*p.CoverImageURL, "data:"):
		// Already hosted elsewhere.
		resp.CoverURL = *p.CoverImageURL
	case hasCover:
		mime, data, err := audio.DecodeDataURI(*p.CoverImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cover: %w", err)
		}
		key := fmt.Sprintf("projects/%s/cover%s", p.ID, extensionFor(mime))
		if resp.CoverURL, err = s.upload(ctx, key, mime, data); err != nil {
			return nil, err
		}
	}

	if hasAudio {
		pcm, err := audio.DecodeBase64(*p.AudioData)
		if err != nil {
			return nil, fmt.Errorf("failed to decode audio: %w", err)
		}
		key := fmt.Sprintf("projects/%s/reading.wav", p.ID)
		if resp.AudioURL, err = s.upload(ctx, key, "audio/wav", audio.AsWAV(pcm)); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("project_id", p.ID.String()).
		Bool("cover", hasCover).
		Bool("audio", hasAudio).
		Msg("Project assets exported")
	return resp, nil
}

func (s *ProjectService) upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := s.assets.Upload(ctx, key, bytes.NewReader(data), contentType, int64(len(data))); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if url := s.assets.PublicURL(key); url != "" {
		return url, nil
	}
	url, err := s.assets.GeneratePresignedURL(ctx, key, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", key, err)
	}
	return url, nil
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
