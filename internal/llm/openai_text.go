package llm

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	providerOpenAI        = "openai"
	defaultOpenAIEndpoint = "https://api.openai.com/v1"
)

// OpenAIText generates the episode package through any OpenAI-compatible chat-completion endpoint.
type OpenAIText struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewOpenAIText returns an OpenAI-compatible text adapter. An empty endpoint targets api.openai.com.
func NewOpenAIText(apiKey, endpoint, model string, httpClient *http.Client) *OpenAIText {
	if endpoint = trimEndpoint(endpoint); endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	if model == "" {
		model = models.DefaultOpenAIModel
	}
	return &OpenAIText{apiKey: apiKey, endpoint: endpoint, model: model, httpClient: httpClient}
}

// packageResponseFormat constrains the reply to {script, tagline, tags} with no additional properties.
func packageResponseFormat() *openai.ResponseFormat {
	return &openai.ResponseFormat{
		Type: "json_schema",
		JSONSchema: &openai.ResponseFormatJSONSchema{
			Name:   "generated_response",
			Strict: true,
			Schema: &openai.ResponseFormatJSONSchemaProperty{
				Type: "object",
				Properties: map[string]*openai.ResponseFormatJSONSchemaProperty{
					"script":  {Type: "string"},
					"tagline": {Type: "string"},
					"tags": {
						Type:  "array",
						Items: &openai.ResponseFormatJSONSchemaProperty{Type: "string"},
					},
				},
				Required:             []string{"script", "tagline", "tags"},
				AdditionalProperties: false,
			},
		},
	}
}

// GeneratePackage sends the prompt as a single user message and parses the first choice.
func (o *OpenAIText) GeneratePackage(ctx context.Context, in models.ProjectInput) (*models.GeneratedPackage, error) {
	if o.apiKey == "" {
		return nil, stageErr(StagePackage, providerOpenAI, kindErr(ErrConfiguration, "openai api key is not set"))
	}

	opts := []openai.Option{
		openai.WithToken(o.apiKey),
		openai.WithModel(o.model),
		openai.WithBaseURL(o.endpoint),
		openai.WithResponseFormat(packageResponseFormat()),
	}
	if o.httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(o.httpClient))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, stageErr(StagePackage, providerOpenAI, kindErr(ErrConfiguration, "openai client: %v", err))
	}

	log.Debug().Str("model", o.model).Str("endpoint", o.endpoint).Msg("Generating letter package (OpenAI-compatible)")

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, PackagePrompt(in)),
	}
	resp, err := llm.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return nil, stageErr(StagePackage, providerOpenAI, transportErr(err))
	}

	var raw string
	if len(resp.Choices) > 0 {
		raw = resp.Choices[0].Content
	}
	logProviderResponse("GeneratePackage", providerOpenAI, raw)

	pkg, err := parsePackage(raw)
	if err != nil {
		return nil, stageErr(StagePackage, providerOpenAI, err)
	}

	log.Info().
		Str("model", o.model).
		Int("script_length", len(pkg.Script)).
		Int("tags", len(pkg.Tags)).
		Msg("Letter package generated (OpenAI-compatible)")
	return pkg, nil
}
