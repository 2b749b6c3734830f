package swap

import (
	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/tree"
)

// fullscreenSlots remembers the fullscreen modes of both operands so they
// can be handed to whichever container ends up in each slot.
type fullscreenSlots struct {
	a, b *tree.Container
	fsA  tree.FullscreenMode
	fsB  tree.FullscreenMode
}

// suspendFullscreen records and disables the fullscreen state of a and b.
func suspendFullscreen(root *tree.Root, a, b *tree.Container) fullscreenSlots {
	fs := fullscreenSlots{a: a, b: b, fsA: a.Fullscreen, fsB: b.Fullscreen}
	if fs.fsA != tree.FullscreenNone {
		root.DisableFullscreen(a)
	}
	if fs.fsB != tree.FullscreenNone {
		root.DisableFullscreen(b)
	}
	return fs
}

// restore gives b (now in a's old slot) a's old mode and vice versa, and
// lets focus follow each container that re-enters fullscreen.
func (fs fullscreenSlots) restore(root *tree.Root, s *seat.Seat) {
	if fs.fsA != tree.FullscreenNone {
		root.SetFullscreen(fs.b, fs.fsA)
		s.FollowFullscreen(fs.b)
	}
	if fs.fsB != tree.FullscreenNone {
		root.SetFullscreen(fs.a, fs.fsB)
		s.FollowFullscreen(fs.a)
	}
}
