// Package sse streams live site updates to browsers over Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeartbeatInterval is how often an idle stream receives a comment line so
// proxies keep the connection open.
const HeartbeatInterval = 25 * time.Second

// clientBuffer is the per-connection event backlog.
const clientBuffer = 64

// Event is one SSE frame.
type Event struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}

type client struct {
	id     string
	events chan Event
}

// Broadcaster fans events out to every connected stream.
type Broadcaster struct {
	clients    map[*client]struct{}
	newClients chan *client
	closed     chan *client
	events     chan Event
	heartbeat  time.Duration
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zerolog.Logger
}

// NewBroadcaster creates a new SSE broadcaster.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]struct{}),
		// Buffered so handlers do not block before Run starts.
		newClients: make(chan *client, 16),
		closed:     make(chan *client, 16),
		events:     make(chan Event, 256),
		heartbeat:  HeartbeatInterval,
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// SetHeartbeat overrides the idle heartbeat interval. Zero disables it.
func (b *Broadcaster) SetHeartbeat(d time.Duration) {
	b.heartbeat = d
}

// Run owns the client set until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for c := range b.clients {
				close(c.events)
			}
			b.clients = make(map[*client]struct{})
			b.mu.Unlock()
			close(b.done)
			b.logger.Debug().Msg("SSE broadcaster shut down")
			return

		case c := <-b.newClients:
			b.mu.Lock()
			b.clients[c] = struct{}{}
			total := len(b.clients)
			b.mu.Unlock()
			b.logger.Info().
				Str("client_id", c.id).
				Int("total_clients", total).
				Msg("SSE client connected")

		case c := <-b.closed:
			b.mu.Lock()
			if _, ok := b.clients[c]; ok {
				delete(b.clients, c)
				close(c.events)
			}
			total := len(b.clients)
			b.mu.Unlock()
			b.logger.Info().
				Str("client_id", c.id).
				Int("total_clients", total).
				Msg("SSE client disconnected")

		case event := <-b.events:
			b.mu.RLock()
			for c := range b.clients {
				select {
				case c.events <- event:
				default:
					b.logger.Warn().
						Str("client_id", c.id).
						Msg("SSE client buffer full, event skipped")
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for every connected stream.
func (b *Broadcaster) Broadcast(event Event) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn().Msg("SSE broadcast channel full, event dropped")
	}
}

// ClientCount returns the number of connected streams.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ServeHTTP holds the connection open and streams events until the client
// goes away or the broadcaster shuts down.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	select {
	case <-b.done:
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	c := &client{id: uuid.NewString(), events: make(chan Event, clientBuffer)}
	select {
	case b.newClients <- c:
	case <-b.done:
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		select {
		case b.closed <- c:
		case <-b.done:
		}
	}()

	b.writeEvent(w, flusher, Event{
		Event: "connected",
		ID:    c.id,
		Data: map[string]any{
			"message":   "Connected to docsite live updates",
			"client_id": c.id,
			"timestamp": time.Now(),
		},
	})

	var tick <-chan time.Time
	if b.heartbeat > 0 {
		ticker := time.NewTicker(b.heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case event, ok := <-c.events:
			if !ok {
				return
			}
			b.writeEvent(w, flusher, event)

		case <-tick:
			_, _ = fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case <-r.Context().Done():
			return

		case <-b.done:
			return
		}
	}
}

func (b *Broadcaster) writeEvent(w http.ResponseWriter, flusher http.Flusher, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to marshal SSE event data")
		return
	}
	if event.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event.Event)
	}
	if event.ID != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", event.ID)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
