package swap

import (
	"errors"
	"fmt"
)

var (
	ErrNilOperand  = errors.New("Cannot swap with nothing")
	ErrAncestor    = errors.New("Cannot swap ancestor and descendant")
	ErrFloating    = errors.New("Swapping with floating containers is not supported")
	ErrNoWorkspace = errors.New("con1 or con2 are on an output without a workspace")

	// ErrPrecondition marks a swap rejected inside the core itself. Callers
	// are expected to have validated already, so it signals a bug.
	ErrPrecondition = errors.New("swap precondition violated")
)

// SwapError is a recoverable rejection with a human-readable reason.
type SwapError struct {
	Reason error
}

func (e *SwapError) Error() string { return e.Reason.Error() }

func (e *SwapError) Unwrap() error { return e.Reason }

// PreconditionError is returned by Swapper.Swap when a check that the
// command layer should already have made fails.
type PreconditionError struct {
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPrecondition, e.Err)
}

func (e *PreconditionError) Unwrap() []error { return []error{ErrPrecondition, e.Err} }
