package input

import (
	"nodewalk/internal/buffer"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Buffer *buffer.Buffer
}

func (c *ModelContext) Cursor() int {
	return c.Buffer.Cursor()
}

func (c *ModelContext) BufferLen() int {
	return c.Buffer.Len()
}

// HasSelection returns true if a region is selected
func (c *ModelContext) HasSelection() bool {
	_, _, ok := c.Buffer.Selection()
	return ok
}

func (c *ModelContext) Modified() bool {
	return c.Buffer.Modified()
}

func (c *ModelContext) ReadOnly() bool {
	return c.Buffer.ReadOnly()
}
