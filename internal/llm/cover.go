package llm

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
	unifiedgenai "google.golang.org/genai"
)

// coverAspectRatio is fixed: covers are always square.
const coverAspectRatio = "1:1"

// GeminiCover generates cover art with the Gemini image model. It is the only image adapter,
// so it always runs on the Gemini credential whatever text provider is active.
type GeminiCover struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewGeminiCover returns the cover art adapter.
func NewGeminiCover(apiKey, endpoint, model string, httpClient *http.Client) *GeminiCover {
	return &GeminiCover{apiKey: apiKey, endpoint: endpoint, model: model, httpClient: httpClient}
}

// GenerateCover returns the first inline image of the response as a data:image/png;base64 URI.
func (g *GeminiCover) GenerateCover(ctx context.Context, in models.ProjectInput) (string, error) {
	client, err := newUnifiedClient(ctx, g.apiKey, g.endpoint, g.httpClient)
	if err != nil {
		return "", stageErr(StageCover, providerGemini, err)
	}

	contents := []*unifiedgenai.Content{
		{
			Role:  "user",
			Parts: []*unifiedgenai.Part{unifiedgenai.NewPartFromText(CoverPrompt(in))},
		},
	}
	config := &unifiedgenai.GenerateContentConfig{
		ImageConfig: &unifiedgenai.ImageConfig{AspectRatio: coverAspectRatio},
	}

	log.Debug().Str("model", g.model).Msg("Generating cover image")

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", stageErr(StageCover, providerGemini, transportErr(err))
	}

	blob := firstInlineData(resp)
	if blob == nil {
		log.Warn().Str("model", g.model).Msg("No inline image data in Gemini response")
		return "", stageErr(StageCover, providerGemini, kindErr(ErrContract, "no image data received"))
	}

	log.Info().
		Str("caller", "GenerateCover").
		Int("image_size_bytes", len(blob.Data)).
		Str("mime_type", blob.MIMEType).
		Msg("Cover image generated")

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(blob.Data), nil
}

// newUnifiedClient builds a unified genai client for one call.
func newUnifiedClient(ctx context.Context, apiKey, endpoint string, httpClient *http.Client) (*unifiedgenai.Client, error) {
	if apiKey == "" {
		return nil, kindErr(ErrConfiguration, "gemini api key is not set")
	}
	cfg := &unifiedgenai.ClientConfig{
		APIKey:     apiKey,
		Backend:    unifiedgenai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if endpoint != "" {
		cfg.HTTPOptions = unifiedgenai.HTTPOptions{BaseURL: endpoint}
	}
	client, err := unifiedgenai.NewClient(ctx, cfg)
	if err != nil {
		return nil, kindErr(ErrConfiguration, "gemini client: %v", err)
	}
	return client, nil
}

// firstInlineData returns the first non-empty inline blob of the first candidate.
func firstInlineData(resp *unifiedgenai.GenerateContentResponse) *unifiedgenai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return nil
	}
	for _, part := range cand.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}
