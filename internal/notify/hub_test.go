package notify

import (
	"context"
	"testing"

	"github.com/snappy-loop/dearme/internal/models"
)

func TestHub_FanOut(t *testing.T) {
	h := NewHub(4)
	a, unsubA := h.Subscribe()
	b, unsubB := h.Subscribe()
	defer unsubA()
	defer unsubB()

	h.Notify(context.Background(), models.Notification{Level: models.LevelSuccess, Message: "Episode generated successfully!"})

	for _, ch := range []<-chan models.Notification{a, b} {
		n := <-ch
		if n.Message != "Episode generated successfully!" || n.CreatedAt.IsZero() {
			t.Errorf("got %+v", n)
		}
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(1)
	ch, unsub := h.Subscribe()
	defer unsub()

	for i := 0; i < 5; i++ {
		h.Notify(context.Background(), models.Notification{Level: models.LevelInfo, Message: "m"})
	}
	if len(ch) != 1 {
		t.Errorf("buffered %d", len(ch))
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub(1)
	ch, unsub := h.Subscribe()
	unsub()
	unsub()

	if h.Subscribers() != 0 {
		t.Errorf("subscribers %d", h.Subscribers())
	}
	if _, ok := <-ch; ok {
		t.Error("channel must be closed")
	}
	h.Notify(context.Background(), models.Notification{Message: "after"})
}
