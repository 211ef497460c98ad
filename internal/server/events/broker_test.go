package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockSubscriber records the events it receives.
type mockSubscriber struct {
	events []Event
	mu     sync.Mutex
	closed bool
	err    error
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{}
}

func (m *mockSubscriber) Send(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSubscriber) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *mockSubscriber) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func newTestBroker() *Broker {
	logger := zerolog.Nop()
	return NewBroker(&logger)
}

// TestBroker_BasicOperation tests subscribe and publish.
func TestBroker_BasicOperation(t *testing.T) {
	b := newTestBroker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	sub := newMockSubscriber()
	b.Subscribe(sub)
	waitFor(t, func() bool { return b.SubscriberCount() == 1 })

	if !b.Publish(ImagesChanged, map[string]any{"images": []string{"/images/a.png"}}) {
		t.Fatal("Publish() returned false on an empty queue")
	}
	waitFor(t, func() bool { return sub.EventCount() == 1 })

	sub.mu.Lock()
	got := sub.events[0]
	sub.mu.Unlock()

	if got.Type != ImagesChanged {
		t.Errorf("event type = %q, want %q", got.Type, ImagesChanged)
	}
	if got.ID == "" {
		t.Error("event id is empty")
	}
	if b.EventsPublished() != 1 {
		t.Errorf("EventsPublished() = %d, want 1", b.EventsPublished())
	}
}

// TestBroker_Unsubscribe tests that removed subscribers are closed and skipped.
func TestBroker_Unsubscribe(t *testing.T) {
	b := newTestBroker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	keep, drop := newMockSubscriber(), newMockSubscriber()
	b.Subscribe(keep)
	b.Subscribe(drop)
	waitFor(t, func() bool { return b.SubscriberCount() == 2 })

	b.Unsubscribe(drop)
	waitFor(t, func() bool { return b.SubscriberCount() == 1 })
	if !drop.Closed() {
		t.Error("unsubscribed subscriber was not closed")
	}

	b.Publish(ConfigChanged, nil)
	waitFor(t, func() bool { return keep.EventCount() == 1 })
	if drop.EventCount() != 0 {
		t.Errorf("unsubscribed subscriber received %d events", drop.EventCount())
	}
}

// TestBroker_SubscriberError tests that a failing subscriber does not block others.
func TestBroker_SubscriberError(t *testing.T) {
	b := newTestBroker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	failing := newMockSubscriber()
	failing.err = errors.New("connection reset")
	healthy := newMockSubscriber()
	b.Subscribe(failing)
	b.Subscribe(healthy)

	b.Publish(BuildCompleted, nil)
	waitFor(t, func() bool { return healthy.EventCount() == 1 })
}

// TestBroker_Shutdown tests that subscribers are closed on shutdown.
func TestBroker_Shutdown(t *testing.T) {
	b := newTestBroker()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	sub1, sub2 := newMockSubscriber(), newMockSubscriber()
	b.Subscribe(sub1)
	b.Subscribe(sub2)
	waitFor(t, func() bool { return b.SubscriberCount() == 2 })

	cancel()
	<-done

	if count := b.SubscriberCount(); count != 0 {
		t.Errorf("expected 0 subscribers after shutdown, got %d", count)
	}
	if !sub1.Closed() || !sub2.Closed() {
		t.Error("subscribers were not closed on shutdown")
	}
}

// TestBroker_SubscribeBeforeRun tests that Subscribe does not block before Run starts.
func TestBroker_SubscribeBeforeRun(t *testing.T) {
	b := newTestBroker()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			b.Subscribe(newMockSubscriber())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe() blocked before Run()")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	waitFor(t, func() bool { return b.SubscriberCount() == 5 })
}

// TestBroker_PublishBeforeRun tests that an event published right after
// Subscribe reaches the subscriber even when Run starts later.
func TestBroker_PublishBeforeRun(t *testing.T) {
	for i := 0; i < 50; i++ {
		b := newTestBroker()

		sub := newMockSubscriber()
		b.Subscribe(sub)
		b.Publish(BuildStarted, nil)

		ctx, cancel := context.WithCancel(context.Background())
		go b.Run(ctx)

		waitFor(t, func() bool { return sub.EventCount() == 1 })
		cancel()
	}
}

// TestBroker_SubscribeAfterShutdown tests that late subscribers are closed.
func TestBroker_SubscribeAfterShutdown(t *testing.T) {
	b := newTestBroker()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	sub := newMockSubscriber()
	b.Subscribe(sub)

	if !sub.Closed() {
		t.Error("subscriber registered after shutdown was not closed")
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", b.SubscriberCount())
	}
}

// TestBroker_PublishDropsWhenFull tests the non-blocking publish path.
func TestBroker_PublishDropsWhenFull(t *testing.T) {
	b := newTestBroker()

	for i := 0; i < cap(b.events); i++ {
		if !b.Publish(ImagesChanged, i) {
			t.Fatalf("Publish() #%d dropped before queue was full", i)
		}
	}
	if b.Publish(ImagesChanged, "overflow") {
		t.Fatal("Publish() succeeded on a full queue")
	}
	if b.EventsDropped() != 1 {
		t.Errorf("EventsDropped() = %d, want 1", b.EventsDropped())
	}
	if b.QueueDepth() != cap(b.events) {
		t.Errorf("QueueDepth() = %d, want %d", b.QueueDepth(), cap(b.events))
	}
}

// TestSubscriberFunc tests the function adapter.
func TestSubscriberFunc(t *testing.T) {
	var got EventType
	sub := SubscriberFunc(func(e Event) error {
		got = e.Type
		return nil
	})

	if err := sub.Send(New(BuildFailed, nil)); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if got != BuildFailed {
		t.Errorf("got %q, want %q", got, BuildFailed)
	}
	if err := sub.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
