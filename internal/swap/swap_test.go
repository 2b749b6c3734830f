package swap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/tree"
)

type scene struct {
	root    *tree.Root
	seat    *seat.Seat
	swapper *Swapper
	out1    *tree.Output
	out2    *tree.Output
	ws1     *tree.Workspace
	ws2     *tree.Workspace
	p1, p2  *tree.Container
	a, x    *tree.Container
	b, y    *tree.Container
}

func rect(x, y, w, h int) tree.Rect { return tree.Rect{X: x, Y: y, Width: w, Height: h} }

// newScene builds two outputs, each with one workspace holding a split
// parent: ws1 = [p1[a, x]] and ws2 = [p2[b, y]].
func newScene(t *testing.T) *scene {
	t.Helper()
	r := tree.NewRoot()
	out1 := r.AddOutput("DP-1", rect(0, 0, 1000, 500))
	out2 := r.AddOutput("DP-2", rect(1000, 0, 800, 600))
	ws1 := r.AddWorkspace(out1, "1")
	ws2 := r.AddWorkspace(out2, "2")

	mk := func(name string, layout tree.Layout, rc tree.Rect) *tree.Container {
		c := r.NewContainer(name)
		c.Layout = layout
		c.Rect = rc
		return c
	}
	p1 := mk("p1", tree.LayoutSplitH, rect(0, 0, 1000, 500))
	p2 := mk("p2", tree.LayoutSplitV, rect(1000, 0, 800, 600))
	tree.AddTiling(ws1, p1)
	tree.AddTiling(ws2, p2)
	a := mk("a", tree.LayoutNone, rect(0, 0, 500, 500))
	x := mk("x", tree.LayoutNone, rect(500, 0, 500, 500))
	b := mk("b", tree.LayoutNone, rect(1000, 0, 800, 300))
	y := mk("y", tree.LayoutNone, rect(1000, 300, 800, 300))
	tree.AddChild(p1, a)
	tree.AddChild(p1, x)
	tree.AddChild(p2, b)
	tree.AddChild(p2, y)

	s := seat.New("seat0")
	return &scene{
		root: r, seat: s, swapper: New(r, s, nil),
		out1: out1, out2: out2, ws1: ws1, ws2: ws2,
		p1: p1, p2: p2, a: a, x: x, b: b, y: y,
	}
}

func childNames(list []*tree.Container) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}

func TestSwap_AcrossWorkspacesExchangesSlotsAndGeometry(t *testing.T) {
	sc := newScene(t)
	rectA, rectB := sc.a.Rect, sc.b.Rect
	rectX, rectY := sc.x.Rect, sc.y.Rect

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Equal(t, []string{"b", "x"}, childNames(sc.p1.Children()))
	assert.Equal(t, []string{"a", "y"}, childNames(sc.p2.Children()))
	assert.Equal(t, rectB, sc.a.Rect)
	assert.Equal(t, rectA, sc.b.Rect)
	assert.Equal(t, rectX, sc.x.Rect)
	assert.Equal(t, rectY, sc.y.Rect)
	assert.Same(t, sc.ws1, sc.b.Workspace())
	assert.Same(t, sc.ws2, sc.a.Workspace())
	assert.Equal(t, 1, tree.SiblingIndex(sc.x))
	assert.Equal(t, 1, tree.SiblingIndex(sc.y))
	require.NoError(t, sc.root.Validate())
}

func TestSwap_SiblingsUnderSameParent(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		swapA string
		swapB string
		want  []string
	}{
		{"first and last", []string{"a", "x", "b"}, "a", "b", []string{"b", "x", "a"}},
		{"last and first", []string{"a", "x", "b"}, "b", "a", []string{"b", "x", "a"}},
		{"adjacent forward", []string{"a", "b", "x"}, "a", "b", []string{"b", "a", "x"}},
		{"adjacent backward", []string{"x", "a", "b"}, "b", "a", []string{"x", "b", "a"}},
		{"middle pair", []string{"w", "a", "x", "b", "z"}, "a", "b", []string{"w", "b", "x", "a", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tree.NewRoot()
			o := r.AddOutput("DP-1", rect(0, 0, 100, 100))
			ws := r.AddWorkspace(o, "1")
			p := r.NewContainer("p")
			tree.AddTiling(ws, p)
			byName := map[string]*tree.Container{}
			for i, name := range tt.order {
				c := r.NewContainer(name)
				c.Rect = rect(i*10, 0, 10, 100)
				tree.AddChild(p, c)
				byName[name] = c
			}
			before := map[string]tree.Rect{}
			for name, c := range byName {
				before[name] = c.Rect
			}

			require.NoError(t, New(r, seat.New("s"), nil).Swap(byName[tt.swapA], byName[tt.swapB]))

			assert.Equal(t, tt.want, childNames(p.Children()))
			assert.Equal(t, before[tt.swapB], byName[tt.swapA].Rect)
			assert.Equal(t, before[tt.swapA], byName[tt.swapB].Rect)
			require.NoError(t, r.Validate())
		})
	}
}

func TestSwap_TopLevelWorkspaceSiblings(t *testing.T) {
	r := tree.NewRoot()
	o := r.AddOutput("DP-1", rect(0, 0, 100, 100))
	ws := r.AddWorkspace(o, "1")
	var cs []*tree.Container
	for _, name := range []string{"a", "m", "b"} {
		c := r.NewContainer(name)
		tree.AddTiling(ws, c)
		cs = append(cs, c)
	}

	require.NoError(t, New(r, seat.New("s"), nil).Swap(cs[0], cs[2]))

	assert.Equal(t, []string{"b", "m", "a"}, childNames(ws.Tiling()))
	assert.Nil(t, cs[0].Parent())
	assert.Nil(t, cs[2].Parent())
}

func TestSwap_TopLevelWithNested(t *testing.T) {
	sc := newScene(t)
	top := sc.root.NewContainer("top")
	tree.InsertTiling(sc.ws2, top, 0)

	require.NoError(t, sc.swapper.Swap(sc.a, top))

	assert.Equal(t, []string{"top", "x"}, childNames(sc.p1.Children()))
	assert.Equal(t, []string{"a", "p2"}, childNames(sc.ws2.Tiling()))
	assert.Nil(t, sc.a.Parent())
	assert.Same(t, sc.p1, top.Parent())
	require.NoError(t, sc.root.Validate())
}

func TestSwap_TwiceRestoresStructureAndGeometry(t *testing.T) {
	sc := newScene(t)
	rectA, rectB := sc.a.Rect, sc.b.Rect

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))
	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Equal(t, []string{"a", "x"}, childNames(sc.p1.Children()))
	assert.Equal(t, []string{"b", "y"}, childNames(sc.p2.Children()))
	assert.Equal(t, rectA, sc.a.Rect)
	assert.Equal(t, rectB, sc.b.Rect)
}

func TestSwap_MovesSubtreeWorkspace(t *testing.T) {
	sc := newScene(t)
	leaf := sc.root.NewContainer("leaf")
	sc.a.Layout = tree.LayoutSplitV
	tree.AddChild(sc.a, leaf)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.y))

	assert.Same(t, sc.ws2, leaf.Workspace())
	require.NoError(t, sc.root.Validate())
}

func TestValidate_RejectsAncestorsAtAnyDepth(t *testing.T) {
	for depth := 1; depth <= 6; depth++ {
		t.Run(fmt.Sprintf("depth=%d", depth), func(t *testing.T) {
			r := tree.NewRoot()
			ws := r.AddWorkspace(r.AddOutput("DP-1", rect(0, 0, 10, 10)), "1")
			top := r.NewContainer("top")
			tree.AddTiling(ws, top)
			cur := top
			for i := 0; i < depth; i++ {
				next := r.NewContainer(fmt.Sprintf("n%d", i))
				tree.AddChild(cur, next)
				cur = next
			}

			for _, pair := range [][2]*tree.Container{{top, cur}, {cur, top}} {
				err := Validate(pair[0], pair[1])
				var swapErr *SwapError
				require.ErrorAs(t, err, &swapErr)
				assert.ErrorIs(t, err, ErrAncestor)
				assert.Equal(t, "Cannot swap ancestor and descendant", err.Error())
			}

			err := New(r, seat.New("s"), nil).Swap(cur, top)
			assert.ErrorIs(t, err, ErrPrecondition)
			assert.ErrorIs(t, err, ErrAncestor)
			assert.Equal(t, []string{"top"}, childNames(ws.Tiling()))
			require.NoError(t, r.Validate())
		})
	}
}

func TestValidate_RejectsFloatingOperands(t *testing.T) {
	sc := newScene(t)
	f := sc.root.NewContainer("float")
	f.Rect = rect(10, 10, 50, 50)
	tree.AddFloating(sc.ws1, f)

	assert.ErrorIs(t, Validate(sc.a, f), ErrFloating)
	assert.ErrorIs(t, Validate(f, sc.b), ErrFloating)

	err := sc.swapper.Swap(f, sc.b)
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, ErrFloating)
	assert.Equal(t, rect(10, 10, 50, 50), f.Rect, "rejected swap must not touch geometry")
	assert.Equal(t, []string{"b", "y"}, childNames(sc.p2.Children()))
}

func TestValidate_RejectsNilOperands(t *testing.T) {
	sc := newScene(t)
	assert.ErrorIs(t, Validate(nil, sc.a), ErrNilOperand)
	assert.ErrorIs(t, Validate(sc.a, nil), ErrNilOperand)
	assert.ErrorIs(t, sc.swapper.Swap(nil, nil), ErrPrecondition)
	assert.NoError(t, Validate(sc.a, sc.b))
}

func TestSwap_ChecksOrderNilBeforeAncestorBeforeFloating(t *testing.T) {
	sc := newScene(t)
	f := sc.root.NewContainer("float")
	tree.AddFloating(sc.ws1, f)
	inner := sc.root.NewContainer("inner")
	tree.AddChild(f, inner)

	// f is both floating and an ancestor of inner; ancestry is reported.
	assert.ErrorIs(t, Validate(f, inner), ErrAncestor)
}

func TestSwap_StrictPanicsOnPrecondition(t *testing.T) {
	sc := newScene(t)
	sc.swapper.Strict = true

	assert.PanicsWithError(t, (&PreconditionError{Err: &SwapError{Reason: ErrAncestor}}).Error(), func() {
		_ = sc.swapper.Swap(sc.p1, sc.a)
	})
}

func TestSwap_DetachedOperandIsPrecondition(t *testing.T) {
	sc := newScene(t)
	loose := sc.root.NewContainer("loose")

	err := sc.swapper.Swap(sc.a, loose)
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.ErrorIs(t, err, ErrNoWorkspace)
	assert.Equal(t, []string{"a", "x"}, childNames(sc.p1.Children()))
}

func TestSwap_GlobalFullscreenFollowsSlot(t *testing.T) {
	sc := newScene(t)
	sc.root.SetFullscreen(sc.a, tree.FullscreenGlobal)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Equal(t, tree.FullscreenNone, sc.a.Fullscreen)
	assert.Equal(t, tree.FullscreenGlobal, sc.b.Fullscreen)
	assert.Same(t, sc.b, sc.root.FullscreenGlobal)
	require.NoError(t, sc.root.Validate())
}

func TestSwap_OutputFullscreenFollowsSlot(t *testing.T) {
	sc := newScene(t)
	sc.root.SetFullscreen(sc.b, tree.FullscreenOutput)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Equal(t, tree.FullscreenOutput, sc.a.Fullscreen)
	assert.Equal(t, tree.FullscreenNone, sc.b.Fullscreen)
	assert.Same(t, sc.a, sc.ws2.Fullscreen, "the slot on ws2 stays fullscreen")
	assert.Nil(t, sc.ws1.Fullscreen)
}

func TestSwap_BothFullscreenTradeModes(t *testing.T) {
	sc := newScene(t)
	sc.root.SetFullscreen(sc.a, tree.FullscreenOutput)
	sc.root.SetFullscreen(sc.b, tree.FullscreenGlobal)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Equal(t, tree.FullscreenGlobal, sc.a.Fullscreen)
	assert.Equal(t, tree.FullscreenOutput, sc.b.Fullscreen)
	assert.Same(t, sc.b, sc.ws1.Fullscreen)
	assert.Same(t, sc.a, sc.root.FullscreenGlobal)
	require.NoError(t, sc.root.Validate())
}

func TestSwap_FocusMovesToPartnerAcrossWorkspaces(t *testing.T) {
	sc := newScene(t)
	sc.seat.SetFocus(sc.a)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Same(t, sc.b, sc.seat.FocusedContainer())
	assert.Same(t, sc.ws1, sc.seat.FocusedWorkspace())
}

func TestSwap_FocusStaysWithinSameWorkspaceSplit(t *testing.T) {
	sc := newScene(t)
	sc.seat.SetFocus(sc.a)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.x))

	assert.Same(t, sc.a, sc.seat.FocusedContainer())
}

func TestSwap_UnrelatedFocusIsReaffirmed(t *testing.T) {
	sc := newScene(t)
	sc.seat.SetFocus(sc.y)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.x))

	assert.Same(t, sc.y, sc.seat.FocusedContainer())
}

func TestSwap_NoFocusStaysUnfocused(t *testing.T) {
	sc := newScene(t)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Nil(t, sc.seat.Focused())
}

func TestSwap_TabbedDestinationAcrossWorkspacesFocusesPartner(t *testing.T) {
	sc := newScene(t)
	sc.p1.Layout = tree.LayoutTabbed
	sc.seat.SetFocus(sc.a)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Same(t, sc.b, sc.seat.FocusedContainer(), "focus is active on the content now in the tab slot")
	assert.True(t, tree.WorkspaceVisible(sc.ws1))
	assert.Same(t, sc.b, sc.seat.FocusInactive(sc.p1))
}

func TestSwap_TabbedDestinationSameWorkspaceSelectsTabAndKeepsFocus(t *testing.T) {
	r := tree.NewRoot()
	ws := r.AddWorkspace(r.AddOutput("DP-1", rect(0, 0, 100, 100)), "1")
	tabs := r.NewContainer("tabs")
	tabs.Layout = tree.LayoutTabbed
	split := r.NewContainer("split")
	split.Layout = tree.LayoutSplitV
	tree.AddTiling(ws, tabs)
	tree.AddTiling(ws, split)
	a, x := r.NewContainer("a"), r.NewContainer("x")
	tree.AddChild(tabs, a)
	tree.AddChild(tabs, x)
	b := r.NewContainer("b")
	tree.AddChild(split, b)

	s := seat.New("s")
	s.SetFocus(x)
	s.SetFocus(a)

	require.NoError(t, New(r, s, nil).Swap(a, b))

	assert.Same(t, a, s.FocusedContainer())
	assert.Same(t, b, s.FocusInactive(tabs), "the tab slot shows the content that moved in")
}

func TestSwap_TabbedDestinationHiddenWorkspace(t *testing.T) {
	r := tree.NewRoot()
	o := r.AddOutput("DP-1", rect(0, 0, 100, 100))
	ws1 := r.AddWorkspace(o, "1")
	ws2 := r.AddWorkspace(o, "2")
	tabs := r.NewContainer("tabs")
	tabs.Layout = tree.LayoutTabbed
	tree.AddTiling(ws1, tabs)
	a := r.NewContainer("a")
	tree.AddChild(tabs, a)
	b := r.NewContainer("b")
	tree.AddTiling(ws2, b)

	s := seat.New("s")
	s.SetFocus(a)

	require.NoError(t, New(r, s, nil).Swap(a, b))

	assert.Same(t, b, s.FocusedContainer())
	assert.True(t, tree.WorkspaceVisible(ws1), "focus keeps the originally visible workspace on screen")
	assert.Same(t, a, s.FocusInactive(ws2), "the hidden workspace remembers the content that moved into it")
}

func TestSwap_GlobalFullscreenElsewhereOverridesFocus(t *testing.T) {
	sc := newScene(t)
	sc.root.SetFullscreen(sc.y, tree.FullscreenGlobal)
	sc.seat.SetFocus(sc.a)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.x))

	assert.Same(t, sc.y, sc.seat.FocusedContainer())
	assert.Same(t, sc.y, sc.root.FullscreenGlobal)
}

func TestSwap_PreservesPreviousWorkspaceName(t *testing.T) {
	for _, prev := range []string{"", "scratch"} {
		t.Run(fmt.Sprintf("prev=%q", prev), func(t *testing.T) {
			sc := newScene(t)
			sc.seat.SetFocus(sc.a)
			sc.seat.PrevWorkspaceName = prev

			require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

			assert.Equal(t, prev, sc.seat.PrevWorkspaceName)
		})
	}
}

func TestSwap_RestoresVisibleWorkspaceChangedByObserver(t *testing.T) {
	r := tree.NewRoot()
	o1 := r.AddOutput("DP-1", rect(0, 0, 100, 100))
	o2 := r.AddOutput("DP-2", rect(100, 0, 100, 100))
	ws1 := r.AddWorkspace(o1, "1")
	hidden := r.AddWorkspace(o1, "hidden")
	ws3 := r.AddWorkspace(o2, "3")
	a, z, b := r.NewContainer("a"), r.NewContainer("z"), r.NewContainer("b")
	tree.AddTiling(ws1, a)
	tree.AddTiling(hidden, z)
	tree.AddTiling(ws3, b)

	s := seat.New("s")
	s.SetFocus(a)
	r.SetFullscreen(a, tree.FullscreenOutput)

	// A listener that reacts to fullscreen changes by moving focus away.
	r.OnFullscreenChange = func(c *tree.Container) {
		if c == a && c.Fullscreen == tree.FullscreenNone {
			s.SetFocus(z)
		}
	}

	require.NoError(t, New(r, s, nil).Swap(a, b))

	assert.True(t, tree.WorkspaceVisible(ws1))
	assert.Same(t, b, s.FocusedContainer())
	assert.Same(t, b, ws1.Fullscreen)
	assert.Equal(t, "", s.PrevWorkspaceName)
}

func TestSwapError_Unwraps(t *testing.T) {
	err := Validate(nil, nil)
	assert.True(t, errors.Is(err, ErrNilOperand))
	assert.Equal(t, "Cannot swap with nothing", err.Error())

	perr := &PreconditionError{Err: err}
	assert.Contains(t, perr.Error(), "swap precondition violated")
	assert.True(t, errors.Is(perr, ErrNilOperand))
}

func TestSwap_GlobalFullscreenSlotTakesFocus(t *testing.T) {
	sc := newScene(t)
	sc.root.SetFullscreen(sc.a, tree.FullscreenGlobal)
	sc.seat.SetFocus(sc.a)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.x))

	assert.Same(t, sc.x, sc.root.FullscreenGlobal)
	assert.Same(t, sc.x, sc.seat.FocusedContainer())
	require.NoError(t, sc.root.Validate())
}

func TestSwap_OutputFullscreenOnUnfocusedWorkspace(t *testing.T) {
	sc := newScene(t)
	sc.root.SetFullscreen(sc.a, tree.FullscreenOutput)
	sc.seat.SetFocus(sc.a)
	sc.seat.SetFocus(sc.y)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.x))

	assert.Same(t, sc.x, sc.ws1.Fullscreen)
	assert.Same(t, sc.y, sc.seat.FocusedContainer())
	assert.Same(t, sc.x, sc.seat.FocusInactive(sc.ws1))
}

func TestSwap_CarriesFullscreenDescendantsAcrossWorkspaces(t *testing.T) {
	sc := newScene(t)
	sc.a.Layout = tree.LayoutSplitV
	sc.b.Layout = tree.LayoutSplitV
	leafA, leafB := sc.root.NewContainer("leafA"), sc.root.NewContainer("leafB")
	tree.AddChild(sc.a, leafA)
	tree.AddChild(sc.b, leafB)
	sc.root.SetFullscreen(leafA, tree.FullscreenOutput)
	sc.root.SetFullscreen(leafB, tree.FullscreenOutput)

	require.NoError(t, sc.swapper.Swap(sc.a, sc.b))

	assert.Same(t, leafB, sc.ws1.Fullscreen)
	assert.Same(t, leafA, sc.ws2.Fullscreen)
	assert.Equal(t, tree.FullscreenOutput, leafA.Fullscreen)
	assert.Equal(t, tree.FullscreenOutput, leafB.Fullscreen)
	require.NoError(t, sc.root.Validate())
}

func TestSwap_FocusByOperandLayoutAndWorkspace(t *testing.T) {
	layouts := []tree.Layout{tree.LayoutSplitH, tree.LayoutTabbed, tree.LayoutStacked}
	for _, focusB := range []bool{false, true} {
		for _, layout := range layouts {
			for _, sameWorkspace := range []bool{true, false} {
				op := "a"
				if focusB {
					op = "b"
				}
				t.Run(fmt.Sprintf("focus=%s/%s/same=%t", op, layout, sameWorkspace), func(t *testing.T) {
					r := tree.NewRoot()
					ws1 := r.AddWorkspace(r.AddOutput("DP-1", rect(0, 0, 1000, 500)), "1")
					ws2 := ws1
					if !sameWorkspace {
						ws2 = r.AddWorkspace(r.AddOutput("DP-2", rect(1000, 0, 1000, 500)), "2")
					}
					pa, pb := r.NewContainer("pa"), r.NewContainer("pb")
					pa.Layout, pb.Layout = layout, layout
					tree.AddTiling(ws1, pa)
					tree.AddTiling(ws2, pb)
					a, x := r.NewContainer("a"), r.NewContainer("x")
					b, y := r.NewContainer("b"), r.NewContainer("y")
					tree.AddChild(pa, a)
					tree.AddChild(pa, x)
					tree.AddChild(pb, b)
					tree.AddChild(pb, y)

					focused, other, oldParent := a, b, pa
					s := seat.New("s")
					if focusB {
						focused, other, oldParent = b, a, pb
						s.SetFocus(y)
					} else {
						s.SetFocus(x)
					}
					s.SetFocus(focused)

					require.NoError(t, New(r, s, nil).Swap(a, b))
					require.NoError(t, r.Validate())

					if sameWorkspace {
						assert.Same(t, focused, s.FocusedContainer(), "focus stays with the moved container")
					} else {
						assert.Same(t, other, s.FocusedContainer(), "focus stays in the original slot")
					}
					if layout.IsTabbedOrStacked() || !sameWorkspace {
						assert.Same(t, other, s.FocusInactive(oldParent), "the vacated slot shows its new content")
					} else {
						assert.NotSame(t, other, s.FocusInactive(oldParent))
					}
				})
			}
		}
	}
}
