package domain

import "errors"

// Navigation errors
var (
	// ErrNoNodeAtPosition indicates that the syntax tree has no node covering a position.
	ErrNoNodeAtPosition = errors.New("no syntax node at position")

	// ErrStaleMarker indicates that a marker outlived the text it was bound to.
	// This means the pre-edit hook did not run before a mutation.
	ErrStaleMarker = errors.New("stale marker: buffer changed without invalidation")

	// ErrMarkerNotLive indicates that a marker was already removed from its registry.
	ErrMarkerNotLive = errors.New("marker is not live")

	// ErrNoTree indicates that the buffer has no syntax tree to bind against.
	ErrNoTree = errors.New("no syntax tree")
)

// Buffer errors
var (
	// ErrInvalidPosition indicates that an offset is outside the buffer.
	ErrInvalidPosition = errors.New("position out of bounds")

	// ErrReadOnly indicates that the buffer rejects edits.
	ErrReadOnly = errors.New("buffer is read-only")
)

// Session and command errors
var (
	// ErrSessionClosed indicates an operation on a session that was already closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrUnknownCommand indicates that no command is registered under a name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnsupportedLanguage indicates that no parser exists for a language id.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
