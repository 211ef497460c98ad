package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/pkg/constants"
)

// Broker distributes published events to every subscriber.
// Subscribe and Publish may be called before Run starts; a subscriber
// registered before an event is published always receives it.
type Broker struct {
	subscribers []Subscriber
	events      chan Event
	closed      bool
	mu          sync.RWMutex
	logger      *zerolog.Logger

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewBroker creates a new event broker.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		events: make(chan Event, constants.ChannelBufferSize),
		logger: logger,
	}
}

// Run delivers events until ctx is cancelled, then closes every subscriber.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for _, sub := range b.subscribers {
				_ = sub.Close()
			}
			b.subscribers = nil
			b.closed = true
			b.mu.Unlock()
			b.logger.Debug().Msg("Event broker shut down")
			return

		case event := <-b.events:
			b.broadcast(event)
		}
	}
}

func (b *Broker) broadcast(event Event) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			b.logger.Warn().
				Err(err).
				Str("event_type", string(event.Type)).
				Msg("Failed to send event to subscriber")
		}
	}

	b.logger.Debug().
		Str("event_type", string(event.Type)).
		Int("subscribers", len(subs)).
		Msg("Event broadcast")
}

// Publish queues an event of the given type for every subscriber. It never
// blocks; when the queue is full the event is dropped and false is returned.
func (b *Broker) Publish(eventType EventType, data any) bool {
	return b.PublishEvent(New(eventType, data))
}

// PublishEvent queues a prepared event. See Publish.
func (b *Broker) PublishEvent(event Event) bool {
	select {
	case b.events <- event:
		b.published.Add(1)
		return true
	default:
		b.dropped.Add(1)
		b.logger.Warn().
			Str("event_type", string(event.Type)).
			Msg("Event queue full, event dropped")
		return false
	}
}

// Subscribe registers a subscriber. After the broker has shut down the
// subscriber is closed instead.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = sub.Close()
		return
	}
	b.subscribers = append(b.subscribers, sub)
	total := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug().
		Int("total_subscribers", total).
		Msg("Subscriber registered")
}

// Unsubscribe removes and closes a subscriber.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	found := false
	for i, s := range b.subscribers {
		if s == sub {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			found = true
			break
		}
	}
	total := len(b.subscribers)
	b.mu.Unlock()

	if !found {
		return
	}
	_ = sub.Close()
	b.logger.Debug().
		Int("total_subscribers", total).
		Msg("Subscriber unregistered")
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// EventsPublished returns how many events were queued.
func (b *Broker) EventsPublished() uint64 {
	return b.published.Load()
}

// EventsDropped returns how many events were dropped on a full queue.
func (b *Broker) EventsDropped() uint64 {
	return b.dropped.Load()
}

// QueueDepth returns the number of events waiting for delivery.
func (b *Broker) QueueDepth() int {
	return len(b.events)
}
