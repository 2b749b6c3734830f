package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/1broseidon/tiletree/internal/swap"
	"github.com/1broseidon/tiletree/internal/tree"
)

const expectedSwapSyntax = "Expected 'swap container with id|con_id|mark <arg>'"

// cmdSwap implements: swap container with id|con_id|mark <arg>
func (h *Handler) cmdSwap(ctx context, args []string) Result {
	if r := checkAtLeast("swap", args, 4); r != nil {
		return *r
	}
	if len(h.Root.Outputs()) == 0 {
		return invalid("Can't run this command while there's no outputs connected.")
	}
	if !strings.EqualFold(args[0], "container") || !strings.EqualFold(args[1], "with") {
		return invalid(expectedSwapSyntax)
	}

	kind := strings.ToLower(args[2])
	value := strings.Join(args[3:], " ")

	var pred func(c *tree.Container) bool
	switch kind {
	case "id":
		wid, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return failure("Failed to find %s '%s'", args[2], value)
		}
		pred = func(c *tree.Container) bool { return c.WindowID != 0 && c.WindowID == uint32(wid) }
	case "con_id":
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return failure("Failed to find %s '%s'", args[2], value)
		}
		pred = func(c *tree.Container) bool { return c.ID() == tree.ID(id) }
	case "mark":
		pred = func(c *tree.Container) bool { return c.HasMark(value) }
	default:
		return invalid(expectedSwapSyntax)
	}

	current := ctx.container
	other := h.Root.FindContainer(pred)

	switch {
	case other == nil:
		return failure("Failed to find %s '%s'", args[2], value)
	case current == nil:
		return failure("Can only swap with containers and views")
	}
	if err := swap.Validate(current, other); err != nil {
		return failure("%s", err.Error())
	}

	if err := h.Swapper.Swap(current, other); err != nil {
		var pe *swap.PreconditionError
		if errors.As(err, &pe) {
			return failure("%s", pe.Err.Error())
		}
		return failure("%s", err.Error())
	}

	if h.Arranger != nil {
		h.Arranger.AfterSwap(h.Root, current, other)
	}
	return success()
}
