package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/tliron/commonlog"

	"nodewalk/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventBeforeEdit      = domain.EventBeforeEdit
	EventAfterEdit       = domain.EventAfterEdit
	EventMarkerCreated   = domain.EventMarkerCreated
	EventMarkerMoved     = domain.EventMarkerMoved
	EventMarkerDeleted   = domain.EventMarkerDeleted
	EventMarkersCleared  = domain.EventMarkersCleared
	EventBoundaryReached = domain.EventBoundaryReached
	EventFileReloaded    = domain.EventFileReloaded
	EventConfigLoaded    = domain.EventConfigLoaded
	EventConfigSaved     = domain.EventConfigSaved
	EventError           = domain.EventError
)

// Re-export domain event types
type BeforeEditEvent = domain.BeforeEditEvent
type AfterEditEvent = domain.AfterEditEvent
type MarkerCreatedEvent = domain.MarkerCreatedEvent
type MarkerMovedEvent = domain.MarkerMovedEvent
type MarkerDeletedEvent = domain.MarkerDeletedEvent
type MarkersClearedEvent = domain.MarkersClearedEvent
type BoundaryReachedEvent = domain.BoundaryReachedEvent
type FileReloadedEvent = domain.FileReloadedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ErrorEvent = domain.ErrorEvent

var log = commonlog.GetLogger("nodewalk.eventbus")

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus.
//
// Publish delivers the event to every handler subscribed to its type before
// it returns, in subscription order. Publishers rely on this: a
// BeforeEditEvent has been fully handled by the time Publish returns.
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
}

// New creates a new event bus
func New() EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Copy so handlers may subscribe or unsubscribe while being called
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	switch event.Type() {
	case EventAfterEdit, EventBeforeEdit:
		// too frequent to log
	default:
		log.Debugf("publishing %s to %d handler(s)", event.Type(), len(subs))
	}

	for _, sub := range subs {
		b.call(sub.handler, event)
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	h(event)
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}
