// Package events fans site change notifications out to every live-update
// transport (WebSocket, SSE) through one broker.
//
// Producers (the file watcher, rebuilds, transports themselves) publish
// events; subscribers adapt them to their own wire format.
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a kind of site event.
type EventType string

// Event types published by the dev server.
const (
	// Content events (from the file watcher).
	ImagesChanged EventType = "images.changed"
	ConfigChanged EventType = "config.changed"

	// Build events (from rebuilds).
	BuildStarted   EventType = "build.started"
	BuildCompleted EventType = "build.completed"
	BuildFailed    EventType = "build.failed"

	// Client events (from transport layers).
	ClientConnected EventType = "client.connected"
)

// Types lists every event type.
var Types = []EventType{
	ImagesChanged,
	ConfigChanged,
	BuildStarted,
	BuildCompleted,
	BuildFailed,
	ClientConnected,
}

// Event is a single notification.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// New creates an event stamped with a fresh id and the current time.
func New(eventType EventType, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
