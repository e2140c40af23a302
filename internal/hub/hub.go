package hub

import (
	"sync"

	"github.com/m3hr4nn/logboss/internal/model"
)

const subscriberBuffer = 256

// Hub fans Progress events out to every subscriber without blocking the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan model.Progress]struct{}
	dropped     int64
	closed      bool
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subscribers: make(map[chan model.Progress]struct{})}
}

// Subscribe returns a buffered channel that receives every published event
// from now on. The channel is closed by Unsubscribe or Close.
func (h *Hub) Subscribe() <-chan model.Progress {
	ch := make(chan model.Progress, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (h *Hub) Unsubscribe(ch <-chan model.Progress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		if sub == ch {
			delete(h.subscribers, sub)
			close(sub)
			return
		}
	}
}

// Dropped returns the number of events lost to slow subscribers.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Publish sends p to every subscriber. A full subscriber loses the event.
func (h *Hub) Publish(p model.Progress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for ch := range h.subscribers {
		select {
		case ch <- p:
		default:
			h.dropped++
		}
	}
}

// Close closes all subscriber channels. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
