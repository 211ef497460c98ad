package events

// Subscriber consumes events. Implementations adapt the event stream to a
// transport (WebSocket, SSE) or to in-process observers.
type Subscriber interface {
	// Send delivers an event. It must not block for long.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}

// SubscriberFunc adapts a function to the Subscriber interface.
// Function values are not comparable, so a SubscriberFunc cannot be passed
// to Broker.Unsubscribe; it lives until the broker stops.
type SubscriberFunc func(Event) error

// Send implements Subscriber.
func (f SubscriberFunc) Send(e Event) error {
	return f(e)
}

// Close implements Subscriber.
func (f SubscriberFunc) Close() error {
	return nil
}
