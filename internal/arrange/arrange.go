// Package arrange recomputes container geometry after structural changes.
package arrange

import (
	"github.com/1broseidon/tiletree/internal/tree"
)

// Arranger lays out children inside their parent's rectangle.
type Arranger struct {
	GapSize        int
	TitleBarHeight int
}

// New creates an arranger with the given gap and title bar sizes.
func New(gapSize, titleBarHeight int) *Arranger {
	return &Arranger{GapSize: gapSize, TitleBarHeight: titleBarHeight}
}

// Root arranges every output, then places the global fullscreen container
// over the union of all outputs.
func (a *Arranger) Root(r *tree.Root) {
	for _, o := range r.Outputs() {
		a.Output(o)
	}
	if fs := r.FullscreenGlobal; fs != nil {
		fs.Rect = Bounds(r.Outputs())
		a.Container(fs)
	}
}

// Output arranges every workspace on o.
func (a *Arranger) Output(o *tree.Output) {
	for _, ws := range o.Workspaces() {
		a.Workspace(ws)
	}
}

// Workspace arranges ws's tiling containers inside its output, leaving an
// outer gap, and gives an OUTPUT fullscreen container the whole output.
func (a *Arranger) Workspace(ws *tree.Workspace) {
	if o := ws.Output(); o != nil {
		ws.Rect = inset(o.Rect, a.GapSize)
	}
	a.children(ws.Tiling(), ws.Layout, ws.Rect)
	for _, c := range ws.Floating() {
		a.Container(c)
	}
	if fs := ws.Fullscreen; fs != nil && ws.Output() != nil {
		fs.Rect = ws.Output().Rect
		a.Container(fs)
	}
}

// Container arranges c's subtree inside c.Rect.
func (a *Arranger) Container(c *tree.Container) {
	a.children(c.Children(), c.Layout, c.Rect)
}

// Node dispatches to Workspace or Container.
func (a *Arranger) Node(n tree.Node) {
	switch v := n.(type) {
	case *tree.Workspace:
		a.Workspace(v)
	case *tree.Container:
		a.Container(v)
	}
}

// AfterSwap refreshes the subtrees a swap of x and y touched: the whole
// tree when a global fullscreen container exists, otherwise the new
// parent of each operand.
func (a *Arranger) AfterSwap(r *tree.Root, x, y *tree.Container) {
	if r.FullscreenGlobal != nil {
		a.Root(r)
		return
	}
	for _, n := range Affected(x, y) {
		a.Node(n)
	}
}

// Affected returns the distinct parents (container or workspace) of x and y.
func Affected(x, y *tree.Container) []tree.Node {
	px, py := x.NodeParent(), y.NodeParent()
	var out []tree.Node
	if px != nil {
		out = append(out, px)
	}
	if py != nil && py != px {
		out = append(out, py)
	}
	return out
}

func (a *Arranger) children(list []*tree.Container, layout tree.Layout, area tree.Rect) {
	if len(list) == 0 {
		return
	}
	rects := a.Positions(len(list), area, layout)
	for i, c := range list {
		c.Rect = rects[i]
		a.Container(c)
	}
}

// Positions computes child rectangles for n children of a parent with the
// given layout occupying area.
func (a *Arranger) Positions(n int, area tree.Rect, layout tree.Layout) []tree.Rect {
	if n == 0 {
		return nil
	}
	positions := make([]tree.Rect, n)

	switch layout {
	case tree.LayoutTabbed, tree.LayoutStacked:
		bars := a.TitleBarHeight
		if layout == tree.LayoutStacked {
			bars = a.TitleBarHeight * n
		}
		body := area
		body.Y += bars
		body.Height = clamp(area.Height - bars)
		for i := range positions {
			positions[i] = body
		}

	case tree.LayoutSplitV:
		cell := clamp((area.Height - (n-1)*a.GapSize) / n)
		for i := range positions {
			positions[i] = tree.Rect{
				X:      area.X,
				Y:      area.Y + i*(cell+a.GapSize),
				Width:  area.Width,
				Height: cell,
			}
		}
		// The last child absorbs the rounding remainder.
		last := &positions[n-1]
		last.Height = clamp(area.Y + area.Height - last.Y)

	default:
		cell := clamp((area.Width - (n-1)*a.GapSize) / n)
		for i := range positions {
			positions[i] = tree.Rect{
				X:      area.X + i*(cell+a.GapSize),
				Y:      area.Y,
				Width:  cell,
				Height: area.Height,
			}
		}
		last := &positions[n-1]
		last.Width = clamp(area.X + area.Width - last.X)
	}

	return positions
}

// Bounds returns the smallest rectangle covering every output.
func Bounds(outputs []*tree.Output) tree.Rect {
	if len(outputs) == 0 {
		return tree.Rect{}
	}
	r := outputs[0].Rect
	x2, y2 := r.X+r.Width, r.Y+r.Height
	for _, o := range outputs[1:] {
		r.X = min(r.X, o.Rect.X)
		r.Y = min(r.Y, o.Rect.Y)
		x2 = max(x2, o.Rect.X+o.Rect.Width)
		y2 = max(y2, o.Rect.Y+o.Rect.Height)
	}
	r.Width = x2 - r.X
	r.Height = y2 - r.Y
	return r
}

func inset(r tree.Rect, gap int) tree.Rect {
	r.X += gap
	r.Y += gap
	r.Width = clamp(r.Width - 2*gap)
	r.Height = clamp(r.Height - 2*gap)
	return r
}

func clamp(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
