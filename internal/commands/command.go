// Package commands is the set of named, position-taking navigation commands
// a host binds to keys.
package commands

import (
	"fmt"

	"nodewalk/internal/domain"
	"nodewalk/internal/navigator"
	"nodewalk/internal/session"
)

// Command names
const (
	DeleteMarker = "delete-marker"
	Prev         = "prev"
	Next         = "next"
	Parent       = "parent"
	Child        = "child"
	Start        = "start"
	End          = "end"
	Mark         = "mark"
	ClearAll     = "clear-all"
)

// Command represents an executable action at a buffer position
type Command interface {
	Execute(pos int) (Report, error)
}

// CommandContext provides context for command execution
type CommandContext struct {
	Session *session.Session
}

func (c *CommandContext) navigator() (*navigator.Navigator, error) {
	if c.Session == nil {
		return nil, domain.ErrSessionClosed
	}
	return c.Session.Navigator()
}

// Report is what a command did, in a form hosts can print
type Report struct {
	Command string
	Outcome navigator.Outcome
	Cursor  int
	// Span is the span of the marker the command ended on, if any
	Span      domain.Span
	HasMarker bool
	Markers   int
	Message   string
}

func (r Report) String() string {
	marker := "none"
	if r.HasMarker {
		marker = r.Span.String()
	}
	return fmt.Sprintf("%s %s cursor=%d marker=%s markers=%d", r.Command, r.Outcome, r.Cursor, marker, r.Markers)
}

func (c *CommandContext) report(name string, res navigator.Result) Report {
	r := Report{
		Command: name,
		Outcome: res.Outcome,
		Cursor:  c.Session.Buffer().Cursor(),
		Markers: c.Session.Registry().Len(),
	}
	if res.Marker != nil {
		r.Span = res.Marker.Span()
		r.HasMarker = true
	}
	return r
}

// MoveCommand moves the marker at a position along a tree relation
type MoveCommand struct {
	ctx      *CommandContext
	name     string
	relation domain.Relation
}

// NewMoveCommand creates a new move command
func NewMoveCommand(ctx *CommandContext, name string, relation domain.Relation) *MoveCommand {
	return &MoveCommand{ctx: ctx, name: name, relation: relation}
}

// Execute performs the move
func (c *MoveCommand) Execute(pos int) (Report, error) {
	nav, err := c.ctx.navigator()
	if err != nil {
		return Report{Command: c.name}, err
	}
	res, err := nav.Move(pos, c.relation)
	if err != nil {
		return Report{Command: c.name, Cursor: pos}, err
	}
	r := c.ctx.report(c.name, res)
	switch res.Outcome {
	case navigator.Moved:
		r.Message = fmt.Sprintf("%s %s", c.relation, r.Span)
	case navigator.NoTarget:
		r.Message = fmt.Sprintf("no %s", c.relation)
	case navigator.Evaporated:
		r.Message = fmt.Sprintf("%s is empty", c.relation)
	}
	return r, nil
}

// StartCommand puts the cursor on the first byte of the node at a position
type StartCommand struct {
	ctx *CommandContext
}

// NewStartCommand creates a new start command
func NewStartCommand(ctx *CommandContext) *StartCommand {
	return &StartCommand{ctx: ctx}
}

// Execute moves the cursor
func (c *StartCommand) Execute(pos int) (Report, error) {
	nav, err := c.ctx.navigator()
	if err != nil {
		return Report{Command: Start}, err
	}
	res, err := nav.Start(pos)
	if err != nil {
		return Report{Command: Start, Cursor: pos}, err
	}
	return c.ctx.report(Start, res), nil
}

// EndCommand puts the cursor on the last byte of the node at a position
type EndCommand struct {
	ctx *CommandContext
}

// NewEndCommand creates a new end command
func NewEndCommand(ctx *CommandContext) *EndCommand {
	return &EndCommand{ctx: ctx}
}

// Execute moves the cursor
func (c *EndCommand) Execute(pos int) (Report, error) {
	nav, err := c.ctx.navigator()
	if err != nil {
		return Report{Command: End}, err
	}
	res, err := nav.End(pos)
	if err != nil {
		return Report{Command: End, Cursor: pos}, err
	}
	return c.ctx.report(End, res), nil
}

// MarkCommand selects the node at a position
type MarkCommand struct {
	ctx *CommandContext
}

// NewMarkCommand creates a new mark command
func NewMarkCommand(ctx *CommandContext) *MarkCommand {
	return &MarkCommand{ctx: ctx}
}

// Execute sets the selection
func (c *MarkCommand) Execute(pos int) (Report, error) {
	nav, err := c.ctx.navigator()
	if err != nil {
		return Report{Command: Mark}, err
	}
	res, err := nav.Mark(pos)
	if err != nil {
		return Report{Command: Mark, Cursor: pos}, err
	}
	r := c.ctx.report(Mark, res)
	r.Message = fmt.Sprintf("marked %s", r.Span)
	return r, nil
}

// DeleteMarkerCommand drops the marker at a position
type DeleteMarkerCommand struct {
	ctx *CommandContext
}

// NewDeleteMarkerCommand creates a new delete-marker command
func NewDeleteMarkerCommand(ctx *CommandContext) *DeleteMarkerCommand {
	return &DeleteMarkerCommand{ctx: ctx}
}

// Execute removes the marker, doing nothing when there is none
func (c *DeleteMarkerCommand) Execute(pos int) (Report, error) {
	nav, err := c.ctx.navigator()
	if err != nil {
		return Report{Command: DeleteMarker}, err
	}
	r := Report{Command: DeleteMarker, Cursor: c.ctx.Session.Buffer().Cursor()}
	if nav.DeleteMarker(pos) {
		r.Message = "marker deleted"
	} else {
		r.Outcome = navigator.NoTarget
		r.Message = fmt.Sprintf("no marker at %d", pos)
	}
	r.Markers = c.ctx.Session.Registry().Len()
	return r, nil
}

// ClearAllCommand drops every marker of the buffer
type ClearAllCommand struct {
	ctx *CommandContext
}

// NewClearAllCommand creates a new clear-all command
func NewClearAllCommand(ctx *CommandContext) *ClearAllCommand {
	return &ClearAllCommand{ctx: ctx}
}

// Execute clears the registry
func (c *ClearAllCommand) Execute(pos int) (Report, error) {
	nav, err := c.ctx.navigator()
	if err != nil {
		return Report{Command: ClearAll}, err
	}
	n := nav.ClearAll()
	return Report{
		Command: ClearAll,
		Cursor:  c.ctx.Session.Buffer().Cursor(),
		Message: fmt.Sprintf("cleared %d marker(s)", n),
	}, nil
}
