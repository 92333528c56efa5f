package models

import "fmt"

// AIProvider selects the text-generation backend.
type AIProvider string

const (
	ProviderGemini AIProvider = "GEMINI"
	ProviderOpenAI AIProvider = "OPENAI"
)

// VoiceProvider selects the audio-generation backend, independent of AIProvider.
type VoiceProvider string

const (
	VoiceGemini VoiceProvider = "GEMINI"
	VoiceKokoro VoiceProvider = "KOKORO"
)

// Defaults applied when no settings were persisted, and per field at call time when a value is empty.
const (
	DefaultGeminiModel = "gemini-3-flash-preview"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultKokoroVoice = "af_bella"
	DefaultKokoroSpeed = 1.0
)

// Settings is the per-session provider configuration, persisted as a flat object.
type Settings struct {
	Provider AIProvider `json:"provider"`

	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`

	OpenAIEndpoint string `json:"openai_endpoint"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	OpenAIModel    string `json:"openai_model"`

	VoiceProvider  VoiceProvider `json:"voice_provider"`
	KokoroEndpoint string        `json:"kokoro_endpoint"`
	KokoroVoice    string        `json:"kokoro_voice"`
	KokoroSpeed    float64       `json:"kokoro_speed"`
}

// DefaultSettings returns the hardcoded settings used when nothing was persisted.
func DefaultSettings() Settings {
	return Settings{
		Provider:      ProviderGemini,
		GeminiModel:   DefaultGeminiModel,
		OpenAIModel:   DefaultOpenAIModel,
		VoiceProvider: VoiceGemini,
		KokoroVoice:   DefaultKokoroVoice,
		KokoroSpeed:   DefaultKokoroSpeed,
	}
}

// Validate rejects unknown provider names and negative speeds. Empty providers are allowed and route to Gemini.
func (s Settings) Validate() error {
	switch s.Provider {
	case "", ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("invalid provider: %q", s.Provider)
	}
	switch s.VoiceProvider {
	case "", VoiceGemini, VoiceKokoro:
	default:
		return fmt.Errorf("invalid voice_provider: %q", s.VoiceProvider)
	}
	if s.KokoroSpeed < 0 {
		return fmt.Errorf("kokoro_speed must not be negative")
	}
	return nil
}
