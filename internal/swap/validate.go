package swap

import "github.com/1broseidon/tiletree/internal/tree"

// Validate reports whether a and b may be swapped. It never mutates.
// Checks run in order: both present, neither an ancestor of the other,
// neither floating.
func Validate(a, b *tree.Container) error {
	if a == nil || b == nil {
		return &SwapError{Reason: ErrNilOperand}
	}
	if tree.HasAncestor(a, b) || tree.HasAncestor(b, a) {
		return &SwapError{Reason: ErrAncestor}
	}
	if tree.IsFloating(a) || tree.IsFloating(b) {
		return &SwapError{Reason: ErrFloating}
	}
	return nil
}
