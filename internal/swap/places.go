package swap

import "github.com/1broseidon/tiletree/internal/tree"

// slot is the structural position of a container: its geometry, its
// parent (nil for workspace top-level) and the sibling index it held.
type slot struct {
	rect      tree.Rect
	parent    *tree.Container
	workspace *tree.Workspace
	index     int
}

func slotOf(c *tree.Container) slot {
	return slot{
		rect:      c.Rect,
		parent:    c.Parent(),
		workspace: c.Workspace(),
		index:     tree.SiblingIndex(c),
	}
}

// insert places c at s regardless of whether s is under a parent or at the
// top of a workspace.
func (s slot) insert(c *tree.Container) {
	if s.parent != nil {
		tree.InsertChild(s.parent, c, s.index)
		return
	}
	tree.InsertTiling(s.workspace, c, s.index)
}

// swapPlaces exchanges geometry and tree position of a and b. Both slots
// are captured before the first insertion: re-inserting a shifts the
// indices of its former siblings, so b's destination index must not be
// read afterwards.
//
// Across workspaces both subtrees are detached first so that OUTPUT
// fullscreen descendants release their workspaces before either lands.
// The sibling lists are disjoint there, so the captured indices hold.
func swapPlaces(a, b *tree.Container) {
	slotA := slotOf(a)
	slotB := slotOf(b)

	a.Rect = slotB.rect
	b.Rect = slotA.rect

	if slotA.workspace != slotB.workspace {
		tree.Detach(a)
		tree.Detach(b)
	}

	slotB.insert(a)
	slotA.insert(b)
}
