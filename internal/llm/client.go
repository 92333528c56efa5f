package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
)

// maxResponseLogBytes is the max length of a provider response body to log in full (to avoid huge logs).
const maxResponseLogBytes = 8192

// TextGenerator produces the script, tagline and tags for a project.
type TextGenerator interface {
	GeneratePackage(ctx context.Context, in models.ProjectInput) (*models.GeneratedPackage, error)
}

// CoverGenerator produces cover art as a data URI.
type CoverGenerator interface {
	GenerateCover(ctx context.Context, in models.ProjectInput) (string, error)
}

// SpeechSynthesizer reads a script aloud and returns base64 audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, script string, tone models.Tone) (string, error)
}

// Options are the process-wide defaults combined with per-call Settings.
type Options struct {
	GeminiAPIKey      string // ambient key, used when Settings carry none
	GeminiAPIEndpoint string // optional base URL override for every Gemini call
	GeminiModelImage  string
	GeminiModelTTS    string
	GeminiTTSVoice    string

	// HTTPClient is used for OpenAI-compatible, Kokoro and unified Gemini calls. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.GeminiModelImage == "" {
		o.GeminiModelImage = "gemini-2.5-flash-image"
	}
	if o.GeminiModelTTS == "" {
		o.GeminiModelTTS = "gemini-2.5-flash-preview-tts"
	}
	if o.GeminiTTSVoice == "" {
		o.GeminiTTSVoice = "Puck"
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	return o
}

// logProviderResponse logs a provider response, truncating if over maxResponseLogBytes.
func logProviderResponse(caller, provider, raw string) {
	if len(raw) <= maxResponseLogBytes {
		log.Debug().Str("caller", caller).Str("provider", provider).Str("response", raw).Msg("Provider response")
		return
	}
	log.Debug().
		Str("caller", caller).
		Str("provider", provider).
		Str("response", raw[:maxResponseLogBytes]+"... [truncated]").
		Int("response_len", len(raw)).
		Msg("Provider response")
}

// trimEndpoint drops trailing slashes so paths can be appended.
func trimEndpoint(endpoint string) string {
	return strings.TrimRight(strings.TrimSpace(endpoint), "/")
}
