package llm

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
	unifiedgenai "google.golang.org/genai"
)

// GeminiSpeech reads a script with a fixed prebuilt Gemini voice.
// Output is raw PCM, 16-bit signed, mono, 24kHz; callers assume this format.
type GeminiSpeech struct {
	apiKey     string
	endpoint   string
	model      string
	voice      string
	httpClient *http.Client
}

// NewGeminiSpeech returns the Gemini TTS adapter.
func NewGeminiSpeech(apiKey, endpoint, model, voice string, httpClient *http.Client) *GeminiSpeech {
	return &GeminiSpeech{apiKey: apiKey, endpoint: endpoint, model: model, voice: voice, httpClient: httpClient}
}

// Synthesize requests audio-modality output and returns the first inline audio blob as base64.
func (g *GeminiSpeech) Synthesize(ctx context.Context, script string, tone models.Tone) (string, error) {
	client, err := newUnifiedClient(ctx, g.apiKey, g.endpoint, g.httpClient)
	if err != nil {
		return "", stageErr(StageAudio, providerGemini, err)
	}

	contents := []*unifiedgenai.Content{
		{
			Role:  "user",
			Parts: []*unifiedgenai.Part{unifiedgenai.NewPartFromText(SpeechPrompt(script, tone))},
		},
	}
	config := &unifiedgenai.GenerateContentConfig{
		ResponseModalities: []string{string(unifiedgenai.ModalityAudio)},
		SpeechConfig: &unifiedgenai.SpeechConfig{
			VoiceConfig: &unifiedgenai.VoiceConfig{
				PrebuiltVoiceConfig: &unifiedgenai.PrebuiltVoiceConfig{
					VoiceName: g.voice,
				},
			},
		},
	}

	log.Debug().
		Str("model", g.model).
		Str("voice", g.voice).
		Str("tone", string(tone)).
		Int("script_length", len(script)).
		Msg("Calling Gemini TTS")

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", stageErr(StageAudio, providerGemini, transportErr(err))
	}

	blob := firstInlineData(resp)
	if blob == nil {
		return "", stageErr(StageAudio, providerGemini, kindErr(ErrContract, "audio synthesis returned empty"))
	}

	log.Info().
		Str("caller", "Synthesize").
		Int("audio_size_bytes", len(blob.Data)).
		Str("voice", g.voice).
		Str("mime_type", blob.MIMEType).
		Msg("TTS audio generated (Gemini)")

	return base64.StdEncoding.EncodeToString(blob.Data), nil
}
