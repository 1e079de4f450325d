// Package events provides an in-process publish/subscribe bus for system events.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType names a kind of event
type EventType string

const (
	// SnapshotStored fires after a report snapshot is persisted
	SnapshotStored EventType = "SNAPSHOT_STORED"
	// BackupCompleted fires after a database backup is uploaded
	BackupCompleted EventType = "BACKUP_COMPLETED"
)

// Event is one emitted occurrence
type Event struct {
	Type      EventType `json:"type"`
	Module    string    `json:"module"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data"`
}

// Handler receives events. Handlers run on the emitting goroutine and must not block.
type Handler func(event *Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches events to subscribers
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscription
	nextID      uint64
	log         zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[EventType][]subscription),
		log:         log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers handler for eventType and returns a function that removes it
func (b *Bus) Subscribe(eventType EventType, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(eventType, id) })
	}
}

func (b *Bus) unsubscribe(eventType EventType, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit delivers an event to every subscriber of its type. A panicking handler is
// logged and does not stop delivery to the others.
func (b *Bus) Emit(eventType EventType, module string, data EventData) {
	event := &Event{
		Type:      eventType,
		Module:    module,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subscribers[eventType]))
	copy(subs, b.subscribers[eventType])
	b.mu.RUnlock()

	for _, s := range subs {
		b.dispatch(s.handler, event)
	}

	b.log.Debug().
		Str("event_type", string(eventType)).
		Str("module", module).
		Int("subscribers", len(subs)).
		Msg("Event emitted")
}

func (b *Bus) dispatch(handler Handler, event *Event) {
	defer func() {
		if p := recover(); p != nil {
			b.log.Error().
				Interface("panic", p).
				Str("event_type", string(event.Type)).
				Msg("Event handler panicked")
		}
	}()
	handler(event)
}

// SubscriberCount reports how many handlers listen for eventType
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}
