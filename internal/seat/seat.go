package seat

import (
	"github.com/1broseidon/tiletree/internal/tree"
)

// FocusListener is called synchronously whenever focus changes.
type FocusListener func(prev, next tree.Node)

// Seat is the input-focus authority. It keeps a focus stack of every node
// it has focused, most recent first, so the last focused descendant of
// any node can be recovered.
type Seat struct {
	Name string

	// PrevWorkspaceName is the workspace focused before the current one,
	// used by "workspace back_and_forth".
	PrevWorkspaceName string

	stack     []tree.Node
	focused   tree.Node
	listeners []FocusListener
}

// New creates a seat with nothing focused.
func New(name string) *Seat {
	return &Seat{Name: name}
}

// Subscribe registers fn for focus notifications.
func (s *Seat) Subscribe(fn FocusListener) {
	s.listeners = append(s.listeners, fn)
}

// Focused returns the focused node, or nil.
func (s *Seat) Focused() tree.Node { return s.focused }

// FocusedContainer returns the focused container, or nil when nothing or a
// workspace is focused.
func (s *Seat) FocusedContainer() *tree.Container {
	c, _ := s.focused.(*tree.Container)
	return c
}

// FocusedWorkspace returns the workspace holding the focused node.
func (s *Seat) FocusedWorkspace() *tree.Workspace {
	return workspaceOf(s.focused)
}

// SetFocusContainer focuses c, or clears focus when c is nil.
func (s *Seat) SetFocusContainer(c *tree.Container) {
	if c == nil {
		s.SetFocus(nil)
		return
	}
	s.SetFocus(c)
}

// SetFocus focuses node. The node and its ancestors move to the top of the
// focus stack and its workspace becomes visible on its output. Passing nil
// unfocuses without touching the stack.
func (s *Seat) SetFocus(node tree.Node) {
	prev := s.focused
	if isNil(node) {
		s.focused = nil
		s.notify(prev, nil)
		return
	}

	prevWs := workspaceOf(prev)
	nextWs := workspaceOf(node)

	s.raiseChain(node)

	if nextWs != nil && nextWs.Output() != nil {
		nextWs.Output().SetActive(nextWs)
	}
	s.focused = node
	if prevWs != nil && prevWs != nextWs {
		s.PrevWorkspaceName = prevWs.Name
	}
	s.notify(prev, node)
}

// FocusInactive returns the most recently focused node inside node's
// subtree, or node itself when none of its descendants were focused.
func (s *Seat) FocusInactive(node tree.Node) tree.Node {
	if isNil(node) {
		return nil
	}
	for _, n := range s.stack {
		if n == node || isDescendant(n, node) {
			return n
		}
	}
	return node
}

// FollowFullscreen moves focus after c entered fullscreen. GLOBAL
// fullscreen takes focus unless focus is already inside c. OUTPUT
// fullscreen takes focus when its workspace is the focused one; otherwise
// c only becomes the focus-inactive node of its workspace.
func (s *Seat) FollowFullscreen(c *tree.Container) {
	if c == nil {
		return
	}
	switch c.Fullscreen {
	case tree.FullscreenGlobal:
		if f := s.FocusedContainer(); f == c || tree.HasAncestor(f, c) {
			return
		}
		s.SetFocusContainer(c)
	case tree.FullscreenOutput:
		if ws := c.Workspace(); ws != nil && ws == s.FocusedWorkspace() {
			s.SetFocusContainer(c)
			return
		}
		s.raiseChain(c)
		if !isNil(s.focused) {
			s.raiseChain(s.focused)
		}
	}
}

// Forget drops node from the focus stack; used when a node is destroyed.
func (s *Seat) Forget(node tree.Node) {
	s.remove(node)
	if s.focused == node {
		s.focused = nil
	}
}

// raiseChain moves node and its ancestors to the top of the stack, node
// first, without changing focus.
func (s *Seat) raiseChain(node tree.Node) {
	var chain []tree.Node
	for n := node; !isNil(n); n = n.NodeParent() {
		chain = append(chain, n)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		s.raise(chain[i])
	}
}

func (s *Seat) raise(n tree.Node) {
	s.remove(n)
	s.stack = append([]tree.Node{n}, s.stack...)
}

func (s *Seat) remove(n tree.Node) {
	for i, e := range s.stack {
		if e == n {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			return
		}
	}
}

func (s *Seat) notify(prev, next tree.Node) {
	for _, fn := range s.listeners {
		fn(prev, next)
	}
}

func isDescendant(n, ancestor tree.Node) bool {
	for p := n.NodeParent(); !isNil(p); p = p.NodeParent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

func workspaceOf(n tree.Node) *tree.Workspace {
	switch v := n.(type) {
	case *tree.Workspace:
		return v
	case *tree.Container:
		if v == nil {
			return nil
		}
		return v.Workspace()
	default:
		return nil
	}
}

// isNil catches typed nil pointers stored in the Node interface.
func isNil(n tree.Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *tree.Container:
		return v == nil
	case *tree.Workspace:
		return v == nil
	default:
		return false
	}
}
