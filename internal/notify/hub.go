package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
)

// Hub fans notifications out to every live subscriber. Slow subscribers lose messages instead of blocking.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan models.Notification]struct{}
	buffer int
	now    func() time.Time
}

// NewHub creates a hub whose subscriber channels hold buffer notifications.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[chan models.Notification]struct{}),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscribe registers a subscriber. The returned func unsubscribes and closes the channel.
func (h *Hub) Subscribe() (<-chan models.Notification, func()) {
	ch := make(chan models.Notification, h.buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Notify delivers n to all subscribers without blocking.
func (h *Hub) Notify(ctx context.Context, n models.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = h.now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Str("level", string(n.Level)).Msg("Notification dropped for slow subscribers")
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
