// Package changefeed delivers change events to driver sessions. The Hub fans
// events out inside the process; listeners feed it from Postgres
// LISTEN/NOTIFY or from a RabbitMQ topic exchange.
package changefeed

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"freight/internal/core/ports"
)

const DefaultBuffer = 16

var ErrHubClosed = errors.New("change hub is closed")

// Hub fans change events out to every subscriber. Publish never blocks: a
// subscriber whose buffer is full misses the event. That is safe because
// sessions re-pull everything on any later event, and the scheduled pool tick
// guarantees there is one.
type Hub struct {
	buffer int
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	closed bool
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		buffer: buffer,
		logger: logger.With("component", "change_hub"),
		subs:   make(map[*subscription]struct{}),
	}
}

// Subscribe registers a subscriber until Unsubscribe is called or ctx is done.
func (h *Hub) Subscribe(ctx context.Context) (ports.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	sub := &subscription{hub: h, events: make(chan ports.ChangeEvent, h.buffer)}
	sub.stop = context.AfterFunc(ctx, func() { _ = sub.Unsubscribe() })
	h.subs[sub] = struct{}{}
	return sub, nil
}

func (h *Hub) Publish(ctx context.Context, events ...ports.ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}

	dropped := 0
	for sub := range h.subs {
		for _, e := range events {
			select {
			case sub.events <- e:
			default:
				dropped++
			}
		}
	}
	if dropped > 0 {
		h.logger.DebugContext(ctx, "dropped change events for slow subscribers", "dropped", dropped)
	}
	return nil
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later Publish and Subscribe calls fail.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		sub.stop()
		close(sub.events)
		delete(h.subs, sub)
	}
}

type subscription struct {
	hub    *Hub
	events chan ports.ChangeEvent
	stop   func() bool
}

func (s *subscription) Events() <-chan ports.ChangeEvent {
	return s.events
}

// Unsubscribe is idempotent.
func (s *subscription) Unsubscribe() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if _, ok := s.hub.subs[s]; !ok {
		return nil
	}
	s.stop()
	delete(s.hub.subs, s)
	close(s.events)
	return nil
}
