package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/snappy-loop/dearme/internal/kafka"
	"github.com/snappy-loop/dearme/internal/models"
)

func TestRelay_SignsAndDelivers(t *testing.T) {
	ev := &models.GenerationEvent{ProjectID: uuid.New(), Event: models.EventEpisodeGenerated, Outcome: "complete"}

	var gotSig, gotEvent string
	var got models.GenerationEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-DearMe-Signature")
		gotEvent = r.Header.Get("X-DearMe-Event")
		if gotSig != Sign(body, "s3cret") {
			t.Errorf("signature mismatch")
		}
		json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewRelay(srv.URL, "s3cret", srv.Client()).HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if gotSig == "" || gotEvent != models.EventEpisodeGenerated || got.ProjectID != ev.ProjectID {
		t.Errorf("sig %q event %q body %+v", gotSig, gotEvent, got)
	}
}

func TestRelay_ErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		permanent bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusGone, true},
		{http.StatusTooManyRequests, false},
		{http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		err := NewRelay(srv.URL, "", srv.Client()).HandleEvent(context.Background(), &models.GenerationEvent{Event: "x"})
		srv.Close()

		var perm *kafka.PermanentError
		if err == nil {
			t.Fatalf("%d: expected error", tt.status)
		}
		if errors.As(err, &perm) != tt.permanent {
			t.Errorf("%d: permanent = %v, want %v", tt.status, !tt.permanent, tt.permanent)
		}
	}
}
