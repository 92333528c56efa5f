package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/kafka"
	"github.com/snappy-loop/dearme/internal/models"
)

const maxErrorBodyBytes = 512

// Relay forwards generation events to one configured HTTP endpoint, signed with HMAC-SHA256.
type Relay struct {
	url        string
	secret     string
	httpClient *http.Client
	now        func() time.Time
}

// NewRelay creates a relay. An empty secret sends unsigned requests.
func NewRelay(url, secret string, httpClient *http.Client) *Relay {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Relay{url: url, secret: secret, httpClient: httpClient, now: time.Now}
}

// DeliveryError wraps a non-2xx webhook response
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.StatusCode)
}

// IsRetryable reports whether the receiver might accept the same event later.
func (e *DeliveryError) IsRetryable() bool {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout {
		return true
	}
	return e.StatusCode >= 500
}

// HandleEvent implements kafka.EventHandler. Non-retryable receiver errors become kafka.PermanentError.
func (r *Relay) HandleEvent(ctx context.Context, ev *models.GenerationEvent) error {
	err := r.send(ctx, ev)
	if err == nil {
		log.Info().
			Str("project_id", ev.ProjectID.String()).
			Str("event", ev.Event).
			Msg("Event delivered to webhook")
		return nil
	}
	if de, ok := err.(*DeliveryError); ok && !de.IsRetryable() {
		return &kafka.PermanentError{Err: err}
	}
	return err
}

func (r *Relay) send(ctx context.Context, ev *models.GenerationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return &kafka.PermanentError{Err: fmt.Errorf("failed to marshal event: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return &kafka.PermanentError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "DearMe-Webhook/1.0")
	req.Header.Set("X-DearMe-Event", ev.Event)
	req.Header.Set("X-DearMe-Timestamp", fmt.Sprintf("%d", r.now().Unix()))
	if r.secret != "" {
		req.Header.Set("X-DearMe-Signature", Sign(body, r.secret))
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of payload.
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

var _ kafka.EventHandler = (*Relay)(nil)
