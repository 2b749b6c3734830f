// Package swap exchanges the positions of two containers in the tiling
// tree while keeping focus and fullscreen state coherent.
package swap

import (
	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/tree"
)

// Swapper runs swaps against one tree and one seat.
type Swapper struct {
	Root   *tree.Root
	Seat   *seat.Seat
	Logger *zap.Logger

	// Strict panics on precondition violations instead of returning them.
	Strict bool
}

// New creates a Swapper. A nil logger is replaced by a no-op logger.
func New(root *tree.Root, s *seat.Seat, logger *zap.Logger) *Swapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Swapper{Root: root, Seat: s, Logger: logger}
}

// Swap exchanges a and b. Either the whole swap happens or it is rejected
// before the tree is touched; a rejection here is always a
// *PreconditionError because callers must validate first. The caller is
// responsible for re-arranging the affected subtrees afterwards.
func (s *Swapper) Swap(a, b *tree.Container) error {
	if err := Validate(a, b); err != nil {
		return s.precondition(err)
	}

	s.Logger.Debug("swapping containers",
		zap.Uint64("con1", uint64(a.ID())),
		zap.Uint64("con2", uint64(b.ID())),
	)

	focus := s.Seat.Focused()
	vis1, vis2 := visibleWorkspace(a), visibleWorkspace(b)
	if vis1 == nil || vis2 == nil {
		return s.precondition(ErrNoWorkspace)
	}

	// Focus changes below rewrite the seat's previous workspace; the value
	// must read the same after the swap as before it.
	prevName := s.Seat.PrevWorkspaceName

	fs := suspendFullscreen(s.Root, a, b)

	swapPlaces(a, b)

	if !tree.WorkspaceVisible(vis1) {
		s.Seat.SetFocus(s.Seat.FocusInactive(vis1))
	}
	if !tree.WorkspaceVisible(vis2) {
		s.Seat.SetFocus(s.Seat.FocusInactive(vis2))
	}

	swapFocus(s.Root, s.Seat, a, b, focus)

	s.Seat.PrevWorkspaceName = prevName

	fs.restore(s.Root, s.Seat)
	return nil
}

func visibleWorkspace(c *tree.Container) *tree.Workspace {
	ws := c.Workspace()
	if ws == nil {
		return nil
	}
	return tree.ActiveWorkspace(ws.Output())
}

func (s *Swapper) precondition(err error) error {
	perr := &PreconditionError{Err: err}
	if s.Strict {
		panic(perr)
	}
	s.Logger.Error("refusing swap", zap.Error(err))
	return perr
}
