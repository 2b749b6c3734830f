package layoutfile

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tiletree/internal/tree"
)

// Build constructs a tree from f. It returns the container flagged focused,
// or nil. Containers without a layout default to none; workspaces default
// to defaultLayout when it is set, otherwise splith.
func Build(f *File, defaultLayout tree.Layout) (*tree.Root, *tree.Container, error) {
	if f == nil {
		return nil, nil, fmt.Errorf("layout file is nil")
	}
	if len(f.Outputs) == 0 {
		return nil, nil, fmt.Errorf("layout file has no outputs")
	}

	b := &builder{
		root:       tree.NewRoot(),
		marks:      make(map[string]string),
		workspaces: make(map[string]struct{}),
	}
	outputs := make(map[string]struct{})

	for i, o := range f.Outputs {
		name := strings.TrimSpace(o.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("output %d: name is required", i)
		}
		if _, dup := outputs[name]; dup {
			return nil, nil, fmt.Errorf("duplicate output %q", name)
		}
		outputs[name] = struct{}{}
		if o.Rect.Width <= 0 || o.Rect.Height <= 0 {
			return nil, nil, fmt.Errorf("output %q: rect must have positive size", name)
		}

		out := b.root.AddOutput(name, o.Rect)
		var active *tree.Workspace
		for _, w := range o.Workspaces {
			ws, err := b.workspace(out, w, defaultLayout)
			if err != nil {
				return nil, nil, fmt.Errorf("output %q: %w", name, err)
			}
			if w.Name == o.Active {
				active = ws
			}
		}
		if o.Active != "" {
			if active == nil {
				return nil, nil, fmt.Errorf("output %q: active workspace %q not found", name, o.Active)
			}
			out.SetActive(active)
		}
	}

	if err := b.root.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid tree: %w", err)
	}
	return b.root, b.focused, nil
}

type builder struct {
	root       *tree.Root
	focused    *tree.Container
	marks      map[string]string
	workspaces map[string]struct{}
}

func (b *builder) workspace(out *tree.Output, w Workspace, defaultLayout tree.Layout) (*tree.Workspace, error) {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return nil, fmt.Errorf("workspace name is required")
	}
	if _, dup := b.workspaces[name]; dup {
		return nil, fmt.Errorf("duplicate workspace %q", name)
	}
	b.workspaces[name] = struct{}{}

	ws := b.root.AddWorkspace(out, name)
	layout, err := tree.ParseLayout(w.Layout)
	if err != nil {
		return nil, fmt.Errorf("workspace %q: %w", name, err)
	}
	switch {
	case layout != tree.LayoutNone:
		ws.Layout = layout
	case defaultLayout != tree.LayoutNone:
		ws.Layout = defaultLayout
	}

	for _, n := range w.Tiling {
		c, err := b.node(n)
		if err != nil {
			return nil, fmt.Errorf("workspace %q: %w", name, err)
		}
		tree.AddTiling(ws, c)
		if err := b.fullscreen(c, n); err != nil {
			return nil, fmt.Errorf("workspace %q: %w", name, err)
		}
	}
	for _, n := range w.Floating {
		c, err := b.node(n)
		if err != nil {
			return nil, fmt.Errorf("workspace %q: %w", name, err)
		}
		tree.AddFloating(ws, c)
		if err := b.fullscreen(c, n); err != nil {
			return nil, fmt.Errorf("workspace %q: %w", name, err)
		}
	}
	return ws, nil
}

// node builds a detached subtree. Fullscreen is applied once the subtree
// is attached, because the workspace bookkeeping needs the workspace.
func (b *builder) node(n Node) (*tree.Container, error) {
	c := b.root.NewContainer(n.Name)
	c.WindowID = n.WindowID
	if n.Rect != nil {
		c.Rect = *n.Rect
	}

	layout, err := tree.ParseLayout(n.Layout)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", n.Name, err)
	}
	c.Layout = layout

	for _, mark := range n.Marks {
		if owner, dup := b.marks[mark]; dup {
			return nil, fmt.Errorf("mark %q used by both %q and %q", mark, owner, n.Name)
		}
		b.marks[mark] = n.Name
		c.Marks = append(c.Marks, mark)
	}

	if n.Focused {
		if b.focused != nil {
			return nil, fmt.Errorf("more than one focused container (%q and %q)", b.focused.Name, n.Name)
		}
		b.focused = c
	}

	for _, childNode := range n.Children {
		child, err := b.node(childNode)
		if err != nil {
			return nil, err
		}
		tree.AddChild(c, child)
	}
	return c, nil
}

// fullscreen applies the fullscreen modes of n's subtree to the attached c.
func (b *builder) fullscreen(c *tree.Container, n Node) error {
	mode, err := tree.ParseFullscreenMode(n.Fullscreen)
	if err != nil {
		return fmt.Errorf("container %q: %w", n.Name, err)
	}
	switch mode {
	case tree.FullscreenOutput:
		if ws := c.Workspace(); ws.Fullscreen != nil {
			return fmt.Errorf("workspace %q has more than one fullscreen container", ws.Name)
		}
	case tree.FullscreenGlobal:
		if b.root.FullscreenGlobal != nil {
			return fmt.Errorf("more than one global fullscreen container")
		}
	}
	if mode != tree.FullscreenNone {
		b.root.SetFullscreen(c, mode)
	}

	children := c.Children()
	for i, childNode := range n.Children {
		if err := b.fullscreen(children[i], childNode); err != nil {
			return err
		}
	}
	return nil
}
