package commands

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"nodewalk/internal/domain"
	"nodewalk/internal/session"
)

var log = commonlog.GetLogger("nodewalk.commands")

// Info describes a command for help screens
type Info struct {
	Name        string
	Description string
}

var infos = []Info{
	{Prev, "move to the previous sibling node"},
	{Next, "move to the next sibling node"},
	{Parent, "move to the parent node"},
	{Child, "move to the child node containing the cursor"},
	{Start, "put the cursor at the start of the node"},
	{End, "put the cursor on the last character of the node"},
	{Mark, "select the node"},
	{DeleteMarker, "forget the node marker at the cursor"},
	{ClearAll, "forget every node marker"},
}

// List returns every command in help order
func List() []Info {
	out := make([]Info, len(infos))
	copy(out, infos)
	return out
}

// Names returns every command name in help order
func Names() []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// Known reports whether name is a command
func Known(name string) bool {
	for _, info := range infos {
		if info.Name == name {
			return true
		}
	}
	return false
}

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor
func NewExecutor(s *session.Session) *Executor {
	return &Executor{
		ctx: &CommandContext{Session: s},
	}
}

// Lookup builds the command called name
func (e *Executor) Lookup(name string) (Command, error) {
	switch strings.TrimSpace(name) {
	case Prev:
		return NewMoveCommand(e.ctx, Prev, domain.PreviousSibling), nil
	case Next:
		return NewMoveCommand(e.ctx, Next, domain.NextSibling), nil
	case Parent:
		return NewMoveCommand(e.ctx, Parent, domain.Parent), nil
	case Child:
		return NewMoveCommand(e.ctx, Child, domain.ChildAtPosition), nil
	case Start:
		return NewStartCommand(e.ctx), nil
	case End:
		return NewEndCommand(e.ctx), nil
	case Mark:
		return NewMarkCommand(e.ctx), nil
	case DeleteMarker:
		return NewDeleteMarkerCommand(e.ctx), nil
	case ClearAll:
		return NewClearAllCommand(e.ctx), nil
	}
	return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownCommand)
}

// Run executes the command called name at pos
func (e *Executor) Run(name string, pos int) (Report, error) {
	cmd, err := e.Lookup(name)
	if err != nil {
		return Report{Command: name, Cursor: pos}, err
	}
	report, err := cmd.Execute(pos)
	if err != nil {
		log.Debugf("%s at %d: %s", name, pos, err)
		return report, err
	}
	log.Debugf("%s", report)
	return report, nil
}

// RunAtCursor executes name at the buffer's cursor
func (e *Executor) RunAtCursor(name string) (Report, error) {
	pos := 0
	if e.ctx.Session != nil {
		pos = e.ctx.Session.Buffer().Cursor()
	}
	return e.Run(name, pos)
}
