package llm

import (
	"github.com/snappy-loop/dearme/internal/models"
)

// TextProviderFor picks the text backend. OpenAI is used only when it is selected and has a key;
// an OpenAI selection without a key falls back to Gemini.
func TextProviderFor(s models.Settings) models.AIProvider {
	if s.Provider == models.ProviderOpenAI && s.OpenAIAPIKey != "" {
		return models.ProviderOpenAI
	}
	return models.ProviderGemini
}

// VoiceProviderFor picks the audio backend. A Kokoro selection is honored even without an
// endpoint, so the Kokoro adapter reports the misconfiguration instead of reading with another voice.
func VoiceProviderFor(s models.Settings) models.VoiceProvider {
	if s.VoiceProvider == models.VoiceKokoro {
		return models.VoiceKokoro
	}
	return models.VoiceGemini
}

// GeminiKeyFor resolves the Gemini credential: explicit key, else the ambient default, else "".
func GeminiKeyFor(s models.Settings, ambient string) string {
	if s.GeminiAPIKey != "" {
		return s.GeminiAPIKey
	}
	return ambient
}

// Router builds the adapter for each capability from one Settings value.
// It holds no provider state between calls, so a settings change applies to the next call.
type Router struct {
	opts Options
}

// NewRouter returns a Router that fills unset options with defaults.
func NewRouter(opts Options) *Router {
	return &Router{opts: opts.withDefaults()}
}

// Text returns the text adapter selected by s.
func (r *Router) Text(s models.Settings) TextGenerator {
	if TextProviderFor(s) == models.ProviderOpenAI {
		return NewOpenAIText(s.OpenAIAPIKey, s.OpenAIEndpoint, s.OpenAIModel, r.opts.HTTPClient)
	}
	return NewGeminiText(GeminiKeyFor(s, r.opts.GeminiAPIKey), r.opts.GeminiAPIEndpoint, s.GeminiModel)
}

// Cover returns the image adapter. Image generation always uses the Gemini credential path.
func (r *Router) Cover(s models.Settings) CoverGenerator {
	return NewGeminiCover(GeminiKeyFor(s, r.opts.GeminiAPIKey), r.opts.GeminiAPIEndpoint, r.opts.GeminiModelImage, r.opts.HTTPClient)
}

// Speech returns the audio adapter selected by s.
func (r *Router) Speech(s models.Settings) SpeechSynthesizer {
	if VoiceProviderFor(s) == models.VoiceKokoro {
		return NewKokoroSpeech(s.KokoroEndpoint, s.KokoroVoice, s.KokoroSpeed, r.opts.HTTPClient)
	}
	return NewGeminiSpeech(GeminiKeyFor(s, r.opts.GeminiAPIKey), r.opts.GeminiAPIEndpoint, r.opts.GeminiModelTTS, r.opts.GeminiTTSVoice, r.opts.HTTPClient)
}
