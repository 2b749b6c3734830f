package swap

import (
	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/tree"
)

// destination classifies the layout a container landed in after the swap.
type destination int

const (
	destSplit destination = iota
	destTabbed
)

func destinationOf(c *tree.Container) destination {
	if tree.ParentLayout(c).IsTabbedOrStacked() {
		return destTabbed
	}
	return destSplit
}

// swapFocus re-establishes focus after a and b traded places. focus is the
// node focused before the swap.
func swapFocus(root *tree.Root, s *seat.Seat, a, b *tree.Container, focus tree.Node) {
	focusedA := focus == tree.Node(a)
	focusedB := focus == tree.Node(b)

	if focusedA || focusedB {
		focused, other := a, b
		if focusedB {
			focused, other = b, a
		}
		wsFocused := focused.Workspace()
		wsOther := other.Workspace()

		// other now sits in the slot the focused container came from.
		// In a tabbed or stacked parent it must become the selected tab.
		if destinationOf(other) == destTabbed && tree.WorkspaceVisible(wsOther) {
			s.SetFocusContainer(other)
		}

		if wsFocused != wsOther {
			s.SetFocusContainer(other)
		} else {
			s.SetFocusContainer(focused)
		}
	} else if focus != nil {
		s.SetFocus(focus)
	}

	if root.FullscreenGlobal != nil {
		s.SetFocus(s.FocusInactive(root.FullscreenGlobal))
	}
}
