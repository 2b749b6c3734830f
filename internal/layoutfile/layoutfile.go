// Package layoutfile reads and writes tree snapshots. A snapshot seeds the
// daemon's initial tree and is what "tiletree tree" prints.
package layoutfile

import (
	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/tree"
)

// File is a complete tree snapshot.
type File struct {
	Outputs       []Output `yaml:"outputs" json:"outputs"`
	PrevWorkspace string   `yaml:"prev_workspace,omitempty" json:"prev_workspace,omitempty"`
}

type Output struct {
	Name       string      `yaml:"name" json:"name"`
	Rect       tree.Rect   `yaml:"rect" json:"rect"`
	Active     string      `yaml:"active,omitempty" json:"active,omitempty"`
	Workspaces []Workspace `yaml:"workspaces" json:"workspaces"`
}

type Workspace struct {
	Name     string `yaml:"name" json:"name"`
	Layout   string `yaml:"layout,omitempty" json:"layout,omitempty"`
	Tiling   []Node `yaml:"tiling,omitempty" json:"tiling,omitempty"`
	Floating []Node `yaml:"floating,omitempty" json:"floating,omitempty"`
}

// Node is one container and its subtree.
type Node struct {
	// ID is informational; Build allocates fresh IDs.
	ID         tree.ID    `yaml:"id,omitempty" json:"id,omitempty"`
	Name       string     `yaml:"name" json:"name"`
	WindowID   uint32     `yaml:"window_id,omitempty" json:"window_id,omitempty"`
	Layout     string     `yaml:"layout,omitempty" json:"layout,omitempty"`
	Rect       *tree.Rect `yaml:"rect,omitempty" json:"rect,omitempty"`
	Marks      []string   `yaml:"marks,omitempty" json:"marks,omitempty"`
	Fullscreen string     `yaml:"fullscreen,omitempty" json:"fullscreen,omitempty"`
	Focused    bool       `yaml:"focused,omitempty" json:"focused,omitempty"`
	Children   []Node     `yaml:"children,omitempty" json:"children,omitempty"`
}

// FromRoot snapshots root. The seat's focused container, if any, is
// flagged focused.
func FromRoot(root *tree.Root, s *seat.Seat) *File {
	var focused *tree.Container
	f := &File{}
	if s != nil {
		focused = s.FocusedContainer()
		f.PrevWorkspace = s.PrevWorkspaceName
	}

	for _, o := range root.Outputs() {
		out := Output{Name: o.Name, Rect: o.Rect}
		if ws := tree.ActiveWorkspace(o); ws != nil {
			out.Active = ws.Name
		}
		for _, ws := range o.Workspaces() {
			w := Workspace{Name: ws.Name, Layout: ws.Layout.String()}
			for _, c := range ws.Tiling() {
				w.Tiling = append(w.Tiling, snapshot(c, focused))
			}
			for _, c := range ws.Floating() {
				w.Floating = append(w.Floating, snapshot(c, focused))
			}
			out.Workspaces = append(out.Workspaces, w)
		}
		f.Outputs = append(f.Outputs, out)
	}
	return f
}

func snapshot(c, focused *tree.Container) Node {
	rect := c.Rect
	n := Node{
		ID:       c.ID(),
		Name:     c.Name,
		WindowID: c.WindowID,
		Rect:     &rect,
		Marks:    append([]string(nil), c.Marks...),
		Focused:  c == focused,
	}
	if c.Layout != tree.LayoutNone {
		n.Layout = c.Layout.String()
	}
	if c.Fullscreen != tree.FullscreenNone {
		n.Fullscreen = c.Fullscreen.String()
	}
	for _, child := range c.Children() {
		n.Children = append(n.Children, snapshot(child, focused))
	}
	return n
}

// Count returns the number of containers in f.
func (f *File) Count() int {
	var count func(list []Node) int
	count = func(list []Node) int {
		n := 0
		for _, node := range list {
			n += 1 + count(node.Children)
		}
		return n
	}
	total := 0
	for _, o := range f.Outputs {
		for _, ws := range o.Workspaces {
			total += count(ws.Tiling) + count(ws.Floating)
		}
	}
	return total
}
