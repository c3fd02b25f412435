package notes

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"note-inbox/internal/logger"

	"github.com/oklog/ulid/v2"
)

// Subscriber is one watcher's outbox. Ch is closed when the watcher leaves.
type Subscriber struct {
	Ch   chan NoteEvent
	Done chan struct{}
}

type watcher struct {
	sub    *Subscriber
	joined time.Time
}

// Hub fans note events out to stream watchers. A watcher whose outbox is
// full misses the event; the store never waits on a slow reader.
type Hub struct {
	mu       sync.RWMutex
	watchers map[ulid.ULID]watcher
	outbox   int
	dropped  atomic.Uint64
}

var _ Bus = (*Hub)(nil)

// NewHub creates a hub whose watchers buffer up to outbox events.
func NewHub(outbox int) *Hub {
	return &Hub{watchers: make(map[ulid.ULID]watcher), outbox: outbox}
}

// Subscribe registers a watcher under id. The returned func unsubscribes.
func (h *Hub) Subscribe(_ context.Context, id ulid.ULID) (*Subscriber, func()) {
	sub := &Subscriber{
		Ch:   make(chan NoteEvent, h.outbox),
		Done: make(chan struct{}),
	}

	h.mu.Lock()
	h.watchers[id] = watcher{sub: sub, joined: time.Now()}
	n := len(h.watchers)
	h.mu.Unlock()

	hubLog().Debug("watcher subscribed", "conn_id", id.String(), "watchers", n)
	return sub, func() { h.Unsubscribe(context.Background(), id) }
}

// Unsubscribe drops the watcher and closes its channels. Unknown ids are ignored.
func (h *Hub) Unsubscribe(_ context.Context, id ulid.ULID) {
	h.mu.Lock()
	w, ok := h.watchers[id]
	if ok {
		delete(h.watchers, id)
		// under the write lock: Broadcast holds the read lock while sending
		close(w.sub.Ch)
		close(w.sub.Done)
	}
	h.mu.Unlock()

	if ok {
		hubLog().Debug("watcher unsubscribed", "conn_id", id.String(), "session", time.Since(w.joined).Round(time.Millisecond))
	}
}

// Broadcast offers ev to every watcher without blocking.
func (h *Hub) Broadcast(_ context.Context, ev NoteEvent) {
	if ev.Note == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, w := range h.watchers {
		select {
		case w.sub.Ch <- ev:
		default:
			h.dropped.Add(1)
			hubLog().Warn("watcher outbox full, event dropped",
				"conn_id", id.String(), "event_type", ev.Type, "note_id", ev.Note.ID)
		}
	}
}

// GetSubscriberCount returns the number of connected watchers.
func (h *Hub) GetSubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

// Stats feeds the stream gauges of the dev store metrics.
func (h *Hub) Stats() (subscribers int, dropped uint64) {
	return h.GetSubscriberCount(), h.dropped.Load()
}

// hubLog tolerates a process that never initialised the logger singleton.
func hubLog() *slog.Logger {
	if l := logger.L(); l != nil {
		return l
	}
	return logger.Discard()
}
