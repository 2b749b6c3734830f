package commands

import (
	"slices"
	"strings"

	"github.com/1broseidon/tiletree/internal/tree"
)

// cmdMark implements: mark [--add|--replace] [--toggle] <identifier>
//
// A mark identifies at most one container; marking a container moves the
// mark off whichever container held it.
func (h *Handler) cmdMark(ctx context, args []string) Result {
	if r := checkAtLeast("mark", args, 1); r != nil {
		return *r
	}
	if ctx.container == nil {
		return failure("Only containers can have marks")
	}

	add, toggle := false, false
	for len(args) > 0 && strings.HasPrefix(args[0], "--") {
		switch args[0] {
		case "--add":
			add = true
		case "--replace":
			add = false
		case "--toggle":
			toggle = true
		default:
			return invalid("Unrecognized argument '%s'", args[0])
		}
		args = args[1:]
	}
	if len(args) == 0 {
		return invalid("Expected '[--add|--replace] [--toggle] <identifier>'")
	}
	mark := strings.Join(args, " ")
	con := ctx.container

	if toggle && con.HasMark(mark) {
		unmark(con, mark)
		return success()
	}

	if holder := h.Root.ByMark(mark); holder != nil && holder != con {
		unmark(holder, mark)
	}
	if !add {
		con.Marks = nil
	}
	if !con.HasMark(mark) {
		con.Marks = append(con.Marks, mark)
	}
	return success()
}

// cmdUnmark implements: unmark [identifier]
//
// Without an identifier, all marks are removed from the selected container
// when criteria were given, otherwise from every container.
func (h *Handler) cmdUnmark(ctx context, args []string) Result {
	if len(args) > 0 {
		mark := strings.Join(args, " ")
		if ctx.criteria {
			unmark(ctx.container, mark)
		} else if holder := h.Root.ByMark(mark); holder != nil {
			unmark(holder, mark)
		}
		return success()
	}

	if ctx.criteria {
		ctx.container.Marks = nil
		return success()
	}
	h.Root.Walk(func(c *tree.Container) bool {
		c.Marks = nil
		return true
	})
	return success()
}

func unmark(c *tree.Container, mark string) {
	c.Marks = slices.DeleteFunc(c.Marks, func(m string) bool { return m == mark })
}
