package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
)

const providerKokoro = "kokoro"

// kokoroPredictionInput is the body of POST {endpoint}/predictions.
type kokoroPredictionInput struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
	Speed float64 `json:"speed,omitempty"`
}

type kokoroPredictionRequest struct {
	Input kokoroPredictionInput `json:"input"`
}

// kokoroPredictionResponse carries either an output URL or a status/error.
type kokoroPredictionResponse struct {
	ID     string `json:"id,omitempty"`
	Output string `json:"output,omitempty"`
	Status string `json:"status,omitempty"` // starting, processing, succeeded, canceled, failed
	Error  string `json:"error,omitempty"`
}

// KokoroSpeech synthesizes speech on a self-hosted Kokoro prediction server.
type KokoroSpeech struct {
	endpoint   string
	voice      string
	speed      float64
	httpClient *http.Client
}

// NewKokoroSpeech returns the Kokoro adapter. Empty voice and zero speed use the Kokoro defaults.
func NewKokoroSpeech(endpoint, voice string, speed float64, httpClient *http.Client) *KokoroSpeech {
	if voice == "" {
		voice = models.DefaultKokoroVoice
	}
	if speed <= 0 {
		speed = models.DefaultKokoroSpeed
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &KokoroSpeech{endpoint: trimEndpoint(endpoint), voice: voice, speed: speed, httpClient: httpClient}
}

// Synthesize posts a prediction, fetches the returned audio URL and base64-encodes its bytes.
// The tone is not forwarded: Kokoro has no reading-direction input.
func (k *KokoroSpeech) Synthesize(ctx context.Context, script string, tone models.Tone) (string, error) {
	if k.endpoint == "" {
		return "", stageErr(StageAudio, providerKokoro, kindErr(ErrConfiguration, "kokoro endpoint URL is not configured"))
	}

	prediction, err := k.predict(ctx, script)
	if err != nil {
		return "", stageErr(StageAudio, providerKokoro, err)
	}

	data, err := k.fetch(ctx, prediction.Output)
	if err != nil {
		return "", stageErr(StageAudio, providerKokoro, err)
	}

	log.Info().
		Str("caller", "Synthesize").
		Str("prediction_id", prediction.ID).
		Int("audio_size_bytes", len(data)).
		Str("voice", k.voice).
		Msg("TTS audio generated (Kokoro)")

	return base64.StdEncoding.EncodeToString(data), nil
}

func (k *KokoroSpeech) predict(ctx context.Context, script string) (*kokoroPredictionResponse, error) {
	body, err := json.Marshal(kokoroPredictionRequest{
		Input: kokoroPredictionInput{Text: script, Voice: k.voice, Speed: k.speed},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	url := k.endpoint + "/predictions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, kindErr(ErrConfiguration, "invalid kokoro endpoint: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("url", url).Str("voice", k.voice).Float64("speed", k.speed).Msg("Calling Kokoro TTS")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, kindErr(ErrTransport, "kokoro request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, kindErr(ErrTransport, "read kokoro response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, kindErr(ErrTransport, "kokoro api error: %s", statusText(resp))
	}
	logProviderResponse("Synthesize", providerKokoro, string(respBody))

	var result kokoroPredictionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, kindErr(ErrContract, "kokoro response is not JSON: %v", err)
	}
	if result.Error != "" {
		return nil, kindErr(ErrContract, "kokoro error: %s", result.Error)
	}
	if result.Status == "failed" {
		return nil, kindErr(ErrContract, "kokoro prediction failed")
	}
	if result.Output == "" {
		return nil, kindErr(ErrContract, "kokoro did not return an output URL")
	}
	return &result, nil
}

func (k *KokoroSpeech) fetch(ctx context.Context, outputURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, outputURL, nil)
	if err != nil {
		return nil, kindErr(ErrContract, "invalid kokoro output URL: %v", err)
	}
	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, kindErr(ErrTransport, "fetch audio: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, kindErr(ErrTransport, "failed to fetch audio: %s", statusText(resp))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, kindErr(ErrTransport, "read audio: %v", err)
	}
	if len(data) == 0 {
		return nil, kindErr(ErrContract, "kokoro audio file is empty")
	}
	return data, nil
}

// statusText renders "404 Not Found" from a response.
func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
}
