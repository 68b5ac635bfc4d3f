// Package hub fans lifecycle events out to every connected observer.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Observer is a single connected client able to accept event frames.
// TrySend must not block: it either queues the frame or fails
// immediately. A failed send means the connection is dead or hopelessly
// backed up, and the hub drops it.
type Observer interface {
	TrySend(data []byte) error
	Close() error
}

// Hub maintains the set of currently connected observers and delivers
// every published event to all of them, best-effort. There is no topic
// filtering and no replay: a late joiner refreshes via the task listing
// endpoint instead.
type Hub struct {
	mu        sync.RWMutex
	observers map[Observer]struct{}
}

// New creates a Hub ready to accept observers.
func New() *Hub {
	return &Hub{
		observers: make(map[Observer]struct{}),
	}
}

// Register adds an observer to the set.
func (h *Hub) Register(o Observer) {
	h.mu.Lock()
	h.observers[o] = struct{}{}
	n := len(h.observers)
	h.mu.Unlock()

	slog.Info("observer registered", "observers", n)
}

// Unregister removes an observer. Idempotent.
func (h *Hub) Unregister(o Observer) {
	h.mu.Lock()
	_, ok := h.observers[o]
	delete(h.observers, o)
	n := len(h.observers)
	h.mu.Unlock()

	if ok {
		slog.Info("observer unregistered", "observers", n)
	}
}

// Publish serializes the event once and attempts delivery to every
// registered observer. A failed delivery removes and closes that
// observer without delaying the others.
func (h *Hub) Publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("hub publish marshal", "error", err)
		return
	}

	h.mu.RLock()
	observers := make([]Observer, 0, len(h.observers))
	for o := range h.observers {
		observers = append(observers, o)
	}
	h.mu.RUnlock()

	for _, o := range observers {
		if err := o.TrySend(data); err != nil {
			slog.Warn("dropping unreachable observer", "error", err)
			h.Unregister(o)
			_ = o.Close()
		}
	}
}

// Len returns the number of currently registered observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}
