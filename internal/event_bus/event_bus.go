package event_bus

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType is an identifier for events.
type EventType string

// Event is the envelope dispatched on the bus. Payloads are typed per
// EventType (see events.go); handlers assert the type they expect.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

// NewEvent creates a new Event with the given context, type, and data.
func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{
		ctx:       ctx,
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Context returns the context associated with this event. Handlers that
// spawn asynchronous work must not reuse it past the request lifetime.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

type handler func(Event)

// EventBus is a concurrency-safe synchronous event dispatcher. It is the
// outbox between state mutations and their fire-and-forget side effects:
// services publish intents, the composition root subscribes the snapshot
// persister and the notification adapter.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]handler
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]handler),
	}
}

// Subscribe registers a handler for the given eventType. Handlers run
// synchronously during Publish, in registration order.
func (eb *EventBus) Subscribe(eventType EventType, h func(Event)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[eventType] = append(eb.subscribers[eventType], h)
}

// Publish sends the event to all handlers registered for event.Type.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	handlers := eb.subscribers[event.Type]
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		log.Tracef("EventBus: no subscribers for %s", event.Type)
		return
	}
	for _, h := range handlers {
		h(event)
	}
}
