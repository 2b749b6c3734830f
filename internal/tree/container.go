package tree

import "slices"

// Container is a node in the tiling tree: a single view or a group of
// children under a layout.
type Container struct {
	id         ID
	Name       string
	WindowID   uint32 // external window id, 0 when the container is not a view
	Rect       Rect
	Layout     Layout // layout applied to Children
	Fullscreen FullscreenMode
	Marks      []string

	floating  bool
	parent    *Container
	workspace *Workspace
	children  []*Container
}

// ID returns the container identifier.
func (c *Container) ID() ID { return c.id }

func (c *Container) NodeID() ID { return c.id }

func (c *Container) NodeParent() Node {
	if c.parent != nil {
		return c.parent
	}
	if c.workspace != nil {
		return c.workspace
	}
	return nil
}

// Parent returns the parent container; nil for workspace top-level
// containers and detached ones.
func (c *Container) Parent() *Container { return c.parent }

// Workspace returns the workspace the container currently belongs to.
func (c *Container) Workspace() *Workspace { return c.workspace }

// Children returns the ordered child list.
func (c *Container) Children() []*Container { return c.children }

// Mapped reports whether the container is attached to an output.
func (c *Container) Mapped() bool {
	return c.workspace != nil && c.workspace.output != nil
}

// HasMark reports whether the container carries mark.
func (c *Container) HasMark(mark string) bool {
	return slices.Contains(c.Marks, mark)
}

// IsFloating reports whether c is a top-level floating container.
func IsFloating(c *Container) bool {
	return c != nil && c.parent == nil && c.floating
}

// HasAncestor reports whether ancestor is a strict ancestor of c.
func HasAncestor(c, ancestor *Container) bool {
	if c == nil || ancestor == nil {
		return false
	}
	for p := c.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// ParentLayout returns the layout governing c's position: its parent's
// layout, or its workspace's when c is top-level.
func ParentLayout(c *Container) Layout {
	if c.parent != nil {
		return c.parent.Layout
	}
	if c.workspace != nil {
		return c.workspace.Layout
	}
	return LayoutNone
}

// siblings returns the list c currently lives in.
func (c *Container) siblings() []*Container {
	switch {
	case c.parent != nil:
		return c.parent.children
	case c.workspace == nil:
		return nil
	case c.floating:
		return c.workspace.floating
	default:
		return c.workspace.tiling
	}
}

// SiblingIndex returns c's position among its siblings, or -1 when c is
// detached.
func SiblingIndex(c *Container) int {
	return slices.Index(c.siblings(), c)
}

// Detach removes c from its parent or workspace without destroying it.
func Detach(c *Container) {
	switch {
	case c.parent != nil:
		c.parent.children = remove(c.parent.children, c)
	case c.workspace != nil && c.floating:
		c.workspace.floating = remove(c.workspace.floating, c)
	case c.workspace != nil:
		c.workspace.tiling = remove(c.workspace.tiling, c)
	}
	c.parent = nil
	c.floating = false
	c.setWorkspace(nil)
}

// InsertChild places c at exactly index among parent's children, shifting
// later entries. c is detached first if attached.
func InsertChild(parent, c *Container, index int) {
	if c.workspace != nil || c.parent != nil {
		Detach(c)
	}
	parent.children = insertAt(parent.children, c, index)
	c.parent = parent
	c.setWorkspace(parent.workspace)
}

// InsertTiling places c at exactly index in ws's top-level tiling list.
func InsertTiling(ws *Workspace, c *Container, index int) {
	if c.workspace != nil || c.parent != nil {
		Detach(c)
	}
	ws.tiling = insertAt(ws.tiling, c, index)
	c.setWorkspace(ws)
}

// AddFloating attaches c to ws as a floating container.
func AddFloating(ws *Workspace, c *Container) {
	if c.workspace != nil || c.parent != nil {
		Detach(c)
	}
	ws.floating = append(ws.floating, c)
	c.floating = true
	c.setWorkspace(ws)
}

// AddChild appends c to parent.
func AddChild(parent, c *Container) {
	InsertChild(parent, c, len(parent.children))
}

// AddTiling appends c to ws's tiling list.
func AddTiling(ws *Workspace, c *Container) {
	InsertTiling(ws, c, len(ws.tiling))
}

// setWorkspace moves c's subtree to ws. OUTPUT fullscreen bookkeeping
// follows the container; a destination that already has an OUTPUT
// fullscreen container keeps it and c drops its mode.
func (c *Container) setWorkspace(ws *Workspace) {
	if old := c.workspace; old != ws && c.Fullscreen == FullscreenOutput {
		if old != nil && old.Fullscreen == c {
			old.Fullscreen = nil
		}
		if ws != nil {
			if ws.Fullscreen == nil {
				ws.Fullscreen = c
			} else {
				c.Fullscreen = FullscreenNone
			}
		}
	}
	c.workspace = ws
	for _, child := range c.children {
		child.setWorkspace(ws)
	}
}

func insertAt(list []*Container, c *Container, index int) []*Container {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	return slices.Insert(list, index, c)
}

func remove(list []*Container, c *Container) []*Container {
	if i := slices.Index(list, c); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
