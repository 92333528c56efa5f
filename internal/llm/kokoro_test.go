package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snappy-loop/dearme/internal/models"
)

// kokoroServer serves /predictions with the given handler and /audio.wav with audio.
func kokoroServer(t *testing.T, predict http.HandlerFunc, audio []byte, audioStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/predictions", predict)
	mux.HandleFunc("/audio.wav", func(w http.ResponseWriter, r *http.Request) {
		if audioStatus != http.StatusOK {
			w.WriteHeader(audioStatus)
			return
		}
		w.Write(audio)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestKokoro_Success(t *testing.T) {
	audio := []byte{0x01, 0x02, 0x03, 0x04}
	var got kokoroPredictionRequest

	var srv *httptest.Server
	srv = kokoroServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		fmt.Fprintf(w, `{"id":"p1","status":"succeeded","output":%q}`, srv.URL+"/audio.wav")
	}, audio, http.StatusOK)

	k := NewKokoroSpeech(srv.URL+"/", "", 0, srv.Client())
	out, err := k.Synthesize(context.Background(), "Dear Alex", models.ToneDry)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if out != base64.StdEncoding.EncodeToString(audio) {
		t.Errorf("got %q", out)
	}
	if got.Input.Text != "Dear Alex" || got.Input.Voice != models.DefaultKokoroVoice || got.Input.Speed != models.DefaultKokoroSpeed {
		t.Errorf("request %+v", got.Input)
	}
}

func TestKokoro_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		audioStatus int
		kind        error
	}{
		{"non-2xx", http.StatusServiceUnavailable, `{}`, http.StatusOK, ErrTransport},
		{"error field", http.StatusOK, `{"error":"voice not found"}`, http.StatusOK, ErrContract},
		{"failed status", http.StatusOK, `{"status":"failed"}`, http.StatusOK, ErrContract},
		{"missing output", http.StatusOK, `{"status":"processing"}`, http.StatusOK, ErrContract},
		{"not json", http.StatusOK, `<html>`, http.StatusOK, ErrContract},
		{"audio fetch 404", http.StatusOK, "", http.StatusNotFound, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var srv *httptest.Server
			srv = kokoroServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				body := tt.body
				if body == "" {
					body = fmt.Sprintf(`{"output":%q}`, srv.URL+"/audio.wav")
				}
				fmt.Fprint(w, body)
			}, []byte{1, 2}, tt.audioStatus)

			_, err := NewKokoroSpeech(srv.URL, "af_sky", 1.2, srv.Client()).Synthesize(context.Background(), "Dear Alex", models.ToneDry)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if StageOf(err) != StageAudio {
				t.Errorf("stage %q", StageOf(err))
			}
		})
	}
}

func TestKokoro_MissingEndpoint(t *testing.T) {
	_, err := NewKokoroSpeech("", "", 0, nil).Synthesize(context.Background(), "Dear Alex", models.ToneDry)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
