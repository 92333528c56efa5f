package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
	"google.golang.org/api/option"
)

const providerGemini = "gemini"

// GeminiText generates the episode package with Gemini structured output.
type GeminiText struct {
	apiKey   string
	endpoint string
	model    string
}

// NewGeminiText returns a Gemini text adapter. An empty model uses models.DefaultGeminiModel.
func NewGeminiText(apiKey, endpoint, model string) *GeminiText {
	if model == "" {
		model = models.DefaultGeminiModel
	}
	return &GeminiText{apiKey: apiKey, endpoint: endpoint, model: model}
}

// packageResponseSchema returns the genai.Schema for {"script": "...", "tagline": "...", "tags": ["..."]}.
func packageResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"script":  {Type: genai.TypeString},
			"tagline": {Type: genai.TypeString},
			"tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"script", "tagline", "tags"},
	}
}

// GeneratePackage calls Gemini once with a strict response schema.
func (g *GeminiText) GeneratePackage(ctx context.Context, in models.ProjectInput) (*models.GeneratedPackage, error) {
	if g.apiKey == "" {
		return nil, stageErr(StagePackage, providerGemini, kindErr(ErrConfiguration, "gemini api key is not set"))
	}

	opts := []option.ClientOption{option.WithAPIKey(g.apiKey)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, stageErr(StagePackage, providerGemini, kindErr(ErrConfiguration, "gemini client: %v", err))
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.8)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = packageResponseSchema()

	log.Debug().Str("model", g.model).Str("target", in.Target).Msg("Generating letter package (Gemini)")

	resp, err := model.GenerateContent(ctx, genai.Text(PackagePrompt(in)))
	if err != nil {
		return nil, stageErr(StagePackage, providerGemini, transportErr(err))
	}

	raw := textFromGenaiResponse(resp)
	logProviderResponse("GeneratePackage", providerGemini, raw)

	pkg, err := parsePackage(raw)
	if err != nil {
		return nil, stageErr(StagePackage, providerGemini, err)
	}

	log.Info().
		Str("model", g.model).
		Int("script_length", len(pkg.Script)).
		Int("tags", len(pkg.Tags)).
		Msg("Letter package generated (Gemini)")
	return pkg, nil
}

// textFromGenaiResponse concatenates the text parts of the first candidate.
func textFromGenaiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
