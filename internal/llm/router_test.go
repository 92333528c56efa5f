package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/snappy-loop/dearme/internal/models"
)

func TestTextProviderFor(t *testing.T) {
	tests := []struct {
		name     string
		settings models.Settings
		want     models.AIProvider
	}{
		{"default", models.DefaultSettings(), models.ProviderGemini},
		{"openai with key", models.Settings{Provider: models.ProviderOpenAI, OpenAIAPIKey: "sk-1"}, models.ProviderOpenAI},
		{"openai without key falls back", models.Settings{Provider: models.ProviderOpenAI}, models.ProviderGemini},
		{"gemini with stray openai key", models.Settings{Provider: models.ProviderGemini, OpenAIAPIKey: "sk-1"}, models.ProviderGemini},
		{"unknown provider", models.Settings{Provider: "CLAUDE", OpenAIAPIKey: "sk-1"}, models.ProviderGemini},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextProviderFor(tt.settings); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVoiceProviderFor(t *testing.T) {
	if got := VoiceProviderFor(models.DefaultSettings()); got != models.VoiceGemini {
		t.Errorf("default: got %s", got)
	}
	if got := VoiceProviderFor(models.Settings{VoiceProvider: models.VoiceKokoro, KokoroEndpoint: "http://k"}); got != models.VoiceKokoro {
		t.Errorf("kokoro: got %s", got)
	}
	if got := VoiceProviderFor(models.Settings{VoiceProvider: models.VoiceKokoro}); got != models.VoiceKokoro {
		t.Errorf("kokoro without endpoint must not fall back, got %s", got)
	}
}

func TestGeminiKeyFor(t *testing.T) {
	if got := GeminiKeyFor(models.Settings{GeminiAPIKey: "explicit"}, "ambient"); got != "explicit" {
		t.Errorf("got %q", got)
	}
	if got := GeminiKeyFor(models.Settings{}, "ambient"); got != "ambient" {
		t.Errorf("got %q", got)
	}
	if got := GeminiKeyFor(models.Settings{}, ""); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestRouter_TextFallsBackToGemini(t *testing.T) {
	r := NewRouter(Options{GeminiAPIKey: "ambient"})

	if _, ok := r.Text(models.Settings{Provider: models.ProviderOpenAI}).(*GeminiText); !ok {
		t.Error("openai without key must route to Gemini")
	}
	if _, ok := r.Text(models.Settings{Provider: models.ProviderOpenAI, OpenAIAPIKey: "sk"}).(*OpenAIText); !ok {
		t.Error("openai with key must route to OpenAI")
	}
}

func TestRouter_CoverAlwaysGemini(t *testing.T) {
	r := NewRouter(Options{GeminiAPIKey: "ambient"})
	cover, ok := r.Cover(models.Settings{Provider: models.ProviderOpenAI, OpenAIAPIKey: "sk"}).(*GeminiCover)
	if !ok {
		t.Fatal("cover must be Gemini")
	}
	if cover.apiKey != "ambient" {
		t.Error("cover must use the Gemini credential path")
	}
}

func TestRouter_KokoroWithoutEndpointIsConfigurationError(t *testing.T) {
	r := NewRouter(Options{GeminiAPIKey: "ambient"})
	speech := r.Speech(models.Settings{VoiceProvider: models.VoiceKokoro})

	_, err := speech.Synthesize(context.Background(), "Dear Alex", models.ToneDry)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if StageOf(err) != StageAudio {
		t.Errorf("stage %q", StageOf(err))
	}
}

func TestGemini_MissingKeyIsConfigurationError(t *testing.T) {
	r := NewRouter(Options{})
	ctx := context.Background()

	if _, err := r.Text(models.DefaultSettings()).GeneratePackage(ctx, alexInput()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("text: got %v", err)
	}
	if _, err := r.Cover(models.DefaultSettings()).GenerateCover(ctx, alexInput()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("cover: got %v", err)
	}
	if _, err := r.Speech(models.DefaultSettings()).Synthesize(ctx, "Dear Alex", models.ToneDry); !errors.Is(err, ErrConfiguration) {
		t.Errorf("speech: got %v", err)
	}
}
