package tree

import (
	"fmt"
)

// ID identifies a node. IDs are assigned at creation and never reused
// within a Root.
type ID uint64

// Rect represents a node position and size
type Rect struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Layout defines how a node arranges its children.
type Layout int

const (
	LayoutNone Layout = iota
	LayoutSplitH
	LayoutSplitV
	LayoutStacked
	LayoutTabbed
)

// IsTabbedOrStacked reports whether only one child is visible at a time.
func (l Layout) IsTabbedOrStacked() bool {
	return l == LayoutTabbed || l == LayoutStacked
}

func (l Layout) String() string {
	switch l {
	case LayoutSplitH:
		return "splith"
	case LayoutSplitV:
		return "splitv"
	case LayoutStacked:
		return "stacked"
	case LayoutTabbed:
		return "tabbed"
	default:
		return "none"
	}
}

// ParseLayout accepts the names produced by String plus the command
// aliases "stacking" and "tabs".
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "splith":
		return LayoutSplitH, nil
	case "splitv":
		return LayoutSplitV, nil
	case "stacked", "stacking":
		return LayoutStacked, nil
	case "tabbed", "tabs":
		return LayoutTabbed, nil
	case "none", "":
		return LayoutNone, nil
	default:
		return LayoutNone, fmt.Errorf("unknown layout %q", s)
	}
}

// Node is anything the seat can focus: a container or a workspace.
type Node interface {
	NodeID() ID
	// NodeParent is the container's parent, its workspace when it is
	// top-level, or nil for a workspace.
	NodeParent() Node
}

// Output is a display region showing one active workspace at a time.
type Output struct {
	id         ID
	Name       string
	Rect       Rect
	workspaces []*Workspace
	active     *Workspace
}

// ID returns the output identifier.
func (o *Output) ID() ID { return o.id }

// Workspaces returns the workspaces assigned to the output, in order.
func (o *Output) Workspaces() []*Workspace { return o.workspaces }

// SetActive makes ws the visible workspace of its output.
func (o *Output) SetActive(ws *Workspace) {
	if ws == nil || ws.output != o {
		return
	}
	o.active = ws
}

// Workspace is a named collection of top-level containers on one output.
type Workspace struct {
	id         ID
	Name       string
	Layout     Layout
	Rect       Rect
	Fullscreen *Container // OUTPUT fullscreen container on this workspace
	output     *Output
	tiling     []*Container
	floating   []*Container
}

func (ws *Workspace) NodeID() ID       { return ws.id }
func (ws *Workspace) NodeParent() Node { return nil }

// Output returns the output the workspace is currently assigned to.
func (ws *Workspace) Output() *Output { return ws.output }

// Tiling returns the ordered top-level tiling containers.
func (ws *Workspace) Tiling() []*Container { return ws.tiling }

// Floating returns the floating containers.
func (ws *Workspace) Floating() []*Container { return ws.floating }

// Root owns every node of the tree. Containers live in an arena keyed by
// ID; structural relations are pointer rewrites inside that arena.
type Root struct {
	outputs    []*Output
	containers map[ID]*Container
	nextID     ID

	// FullscreenGlobal is the single container holding GLOBAL fullscreen.
	FullscreenGlobal *Container

	// OnFullscreenChange is invoked synchronously after a container's
	// fullscreen mode changes.
	OnFullscreenChange func(c *Container)
}

// NewRoot creates an empty tree.
func NewRoot() *Root {
	return &Root{containers: make(map[ID]*Container)}
}

func (r *Root) allocID() ID {
	r.nextID++
	return r.nextID
}

// Outputs returns the attached outputs.
func (r *Root) Outputs() []*Output { return r.outputs }

// AddOutput attaches a new output.
func (r *Root) AddOutput(name string, rect Rect) *Output {
	o := &Output{id: r.allocID(), Name: name, Rect: rect}
	r.outputs = append(r.outputs, o)
	return o
}

// AddWorkspace creates a workspace on o. The first workspace of an output
// becomes its active workspace.
func (r *Root) AddWorkspace(o *Output, name string) *Workspace {
	ws := &Workspace{id: r.allocID(), Name: name, Layout: LayoutSplitH, Rect: o.Rect, output: o}
	o.workspaces = append(o.workspaces, ws)
	if o.active == nil {
		o.active = ws
	}
	return ws
}

// WorkspaceByName returns the workspace with the given name, or nil.
func (r *Root) WorkspaceByName(name string) *Workspace {
	for _, o := range r.outputs {
		for _, ws := range o.workspaces {
			if ws.Name == name {
				return ws
			}
		}
	}
	return nil
}

// NewContainer allocates a detached container in the arena.
func (r *Root) NewContainer(name string) *Container {
	c := &Container{id: r.allocID(), Name: name, Layout: LayoutNone}
	r.containers[c.id] = c
	return c
}

// ByID returns the container with the given ID, or nil.
func (r *Root) ByID(id ID) *Container {
	return r.containers[id]
}

// ByMark returns the container carrying mark, or nil.
func (r *Root) ByMark(mark string) *Container {
	return r.FindContainer(func(c *Container) bool { return c.HasMark(mark) })
}

// FindContainer performs a depth-first search over every attached
// container, tiling before floating, returning the first match.
func (r *Root) FindContainer(pred func(c *Container) bool) *Container {
	var found *Container
	r.Walk(func(c *Container) bool {
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// Walk visits every attached container depth-first. Returning false from
// fn stops the walk.
func (r *Root) Walk(fn func(c *Container) bool) {
	for _, o := range r.outputs {
		for _, ws := range o.workspaces {
			if !walkList(ws.tiling, fn) || !walkList(ws.floating, fn) {
				return
			}
		}
	}
}

func walkList(list []*Container, fn func(c *Container) bool) bool {
	for _, c := range list {
		if !fn(c) {
			return false
		}
		if !walkList(c.children, fn) {
			return false
		}
	}
	return true
}

// ActiveWorkspace returns the visible workspace of o, or nil when o has
// no workspace.
func ActiveWorkspace(o *Output) *Workspace {
	if o == nil {
		return nil
	}
	if o.active != nil {
		return o.active
	}
	if len(o.workspaces) > 0 {
		return o.workspaces[0]
	}
	return nil
}

// WorkspaceVisible reports whether ws is the active workspace of its output.
func WorkspaceVisible(ws *Workspace) bool {
	if ws == nil || ws.output == nil {
		return false
	}
	return ActiveWorkspace(ws.output) == ws
}

// Validate checks structural invariants: back-references agree with the
// child lists, the tree is acyclic, the arena contains every attached
// container, and at most one container holds GLOBAL fullscreen.
func (r *Root) Validate() error {
	seen := make(map[ID]struct{})
	globals := 0
	var check func(list []*Container, parent *Container, ws *Workspace) error
	check = func(list []*Container, parent *Container, ws *Workspace) error {
		for _, c := range list {
			if _, dup := seen[c.id]; dup {
				return fmt.Errorf("container %d reachable twice", c.id)
			}
			seen[c.id] = struct{}{}
			if r.containers[c.id] != c {
				return fmt.Errorf("container %d missing from arena", c.id)
			}
			if c.parent != parent {
				return fmt.Errorf("container %d has stale parent reference", c.id)
			}
			if c.workspace != ws {
				return fmt.Errorf("container %d has stale workspace reference", c.id)
			}
			if c.Fullscreen == FullscreenGlobal {
				globals++
				if r.FullscreenGlobal != c {
					return fmt.Errorf("container %d is global fullscreen but not the global pointer", c.id)
				}
			}
			if err := check(c.children, c, ws); err != nil {
				return err
			}
		}
		return nil
	}
	for _, o := range r.outputs {
		for _, ws := range o.workspaces {
			if ws.output != o {
				return fmt.Errorf("workspace %q has stale output reference", ws.Name)
			}
			if err := check(ws.tiling, nil, ws); err != nil {
				return err
			}
			if err := check(ws.floating, nil, ws); err != nil {
				return err
			}
			if ws.Fullscreen != nil && ws.Fullscreen.workspace != ws {
				return fmt.Errorf("workspace %q fullscreen container lives elsewhere", ws.Name)
			}
		}
	}
	if globals > 1 {
		return fmt.Errorf("%d containers hold global fullscreen", globals)
	}
	if globals == 0 && r.FullscreenGlobal != nil {
		return fmt.Errorf("global fullscreen pointer references container %d without global mode", r.FullscreenGlobal.id)
	}
	return nil
}
