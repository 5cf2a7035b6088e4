package handlers

import (
	"fmt"

	"nodewalk/internal/eventbus"
	"nodewalk/internal/ui/state"
)

// EventHandler turns domain events into status line state
type EventHandler struct {
	state            *state.AppState
	boundaryFeedback bool
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState, boundaryFeedback bool) *EventHandler {
	return &EventHandler{
		state:            appState,
		boundaryFeedback: boundaryFeedback,
	}
}

// Subscribe registers the handler for the events it shows and returns a
// function that removes every subscription
func (h *EventHandler) Subscribe(bus eventbus.EventBus) func() {
	var unsubscribe []func()
	for _, t := range []eventbus.EventType{
		eventbus.EventBoundaryReached,
		eventbus.EventFileReloaded,
		eventbus.EventConfigSaved,
		eventbus.EventError,
	} {
		unsubscribe = append(unsubscribe, bus.Subscribe(t, h.HandleEvent))
	}
	return func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}
}

// HandleEvent processes domain events and updates state
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.BoundaryReachedEvent:
		if h.boundaryFeedback {
			h.state.SetMessage(state.MessageBoundary, fmt.Sprintf("no %s", e.Relation))
		}

	case eventbus.FileReloadedEvent:
		h.state.SetMessage(state.MessageInfo, fmt.Sprintf("reloaded %s", e.Path))

	case eventbus.ConfigSavedEvent:
		h.state.SetMessage(state.MessageInfo, fmt.Sprintf("config saved to %s", e.Path))

	case eventbus.ErrorEvent:
		msg := e.Message
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		h.state.SetMessage(state.MessageError, fmt.Sprintf("Error: %s", msg))
	}
}
