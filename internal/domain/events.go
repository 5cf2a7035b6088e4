package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventBeforeEdit      EventType = "BeforeEdit"
	EventAfterEdit       EventType = "AfterEdit"
	EventMarkerCreated   EventType = "MarkerCreated"
	EventMarkerMoved     EventType = "MarkerMoved"
	EventMarkerDeleted   EventType = "MarkerDeleted"
	EventMarkersCleared  EventType = "MarkersCleared"
	EventBoundaryReached EventType = "BoundaryReached"
	EventFileReloaded    EventType = "FileReloaded"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
	EventError           EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// BeforeEditEvent is published strictly before a buffer mutation is applied.
// It carries no edit details: subscribers must not depend on where the edit lands.
type BeforeEditEvent struct {
	BufferID string
}

func (e BeforeEditEvent) Type() EventType { return EventBeforeEdit }

// AfterEditEvent is published once a mutation has been applied
type AfterEditEvent struct {
	BufferID string
	Edit     Edit
	Version  uint64
}

func (e AfterEditEvent) Type() EventType { return EventAfterEdit }

// MarkerCreatedEvent is emitted when a marker is bound for the first time
type MarkerCreatedEvent struct {
	BufferID string
	MarkerID int
	Span     Span
}

func (e MarkerCreatedEvent) Type() EventType { return EventMarkerCreated }

// MarkerMovedEvent is emitted when a marker is rebound along a relation
type MarkerMovedEvent struct {
	BufferID string
	MarkerID int
	Relation Relation
	From     Span
	To       Span
}

func (e MarkerMovedEvent) Type() EventType { return EventMarkerMoved }

// MarkerDeletedEvent is emitted when a single marker is destroyed
type MarkerDeletedEvent struct {
	BufferID string
	MarkerID int
}

func (e MarkerDeletedEvent) Type() EventType { return EventMarkerDeleted }

// MarkersClearedEvent is emitted when every marker of a buffer is discarded
type MarkersClearedEvent struct {
	BufferID string
	Count    int
}

func (e MarkersClearedEvent) Type() EventType { return EventMarkersCleared }

// BoundaryReachedEvent is emitted when a relation has no target node
type BoundaryReachedEvent struct {
	BufferID string
	Relation Relation
	Span     Span
}

func (e BoundaryReachedEvent) Type() EventType { return EventBoundaryReached }

// FileReloadedEvent is emitted when a buffer was replaced from disk
type FileReloadedEvent struct {
	BufferID string
	Path     string
}

func (e FileReloadedEvent) Type() EventType { return EventFileReloaded }

// ConfigLoadedEvent is emitted when configuration has been read
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration has been written
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
