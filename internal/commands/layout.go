package commands

import (
	"strings"

	"github.com/1broseidon/tiletree/internal/tree"
)

// cmdFullscreen implements: fullscreen [enable|disable|toggle] [global]
func (h *Handler) cmdFullscreen(ctx context, args []string) Result {
	if len(args) > 2 {
		return invalid("Invalid fullscreen command (expected at most 2 arguments, got %d)", len(args))
	}
	con := ctx.container
	if con == nil {
		return failure("Can only fullscreen containers")
	}

	isFullscreen := con.Fullscreen != tree.FullscreenNone
	global := false
	enable := !isFullscreen
	if len(args) >= 1 {
		if strings.EqualFold(args[0], "global") {
			global = true
		} else {
			enable = parseBoolean(args[0], isFullscreen)
		}
	}
	if len(args) >= 2 {
		global = strings.EqualFold(args[1], "global")
	}

	mode := tree.FullscreenNone
	if enable {
		mode = tree.FullscreenOutput
		if global {
			mode = tree.FullscreenGlobal
		}
	}
	h.Root.SetFullscreen(con, mode)
	h.Seat.FollowFullscreen(con)
	if h.Arranger != nil {
		h.Arranger.Root(h.Root)
	}
	return success()
}

// cmdLayout implements: layout splith|splitv|stacking|tabbed|toggle split
//
// The layout is applied to the parent of the selected container, or to the
// focused workspace when a workspace is focused.
func (h *Handler) cmdLayout(ctx context, args []string) Result {
	if r := checkAtLeast("layout", args, 1); r != nil {
		return *r
	}

	var (
		target  tree.Node
		current *tree.Layout
	)
	switch {
	case ctx.container != nil && ctx.container.Parent() != nil:
		p := ctx.container.Parent()
		target, current = p, &p.Layout
	case ctx.container != nil && ctx.container.Workspace() != nil:
		ws := ctx.container.Workspace()
		target, current = ws, &ws.Layout
	case ctx.container == nil && h.Seat.FocusedWorkspace() != nil:
		ws := h.Seat.FocusedWorkspace()
		target, current = ws, &ws.Layout
	default:
		return failure("No container to apply the layout to")
	}

	if strings.EqualFold(args[0], "toggle") {
		if len(args) != 2 || !strings.EqualFold(args[1], "split") {
			return invalid("Expected 'layout toggle split'")
		}
		if *current == tree.LayoutSplitH {
			*current = tree.LayoutSplitV
		} else {
			*current = tree.LayoutSplitH
		}
	} else {
		l, err := tree.ParseLayout(strings.ToLower(args[0]))
		if err != nil || l == tree.LayoutNone {
			return invalid("Expected 'layout splith|splitv|stacking|tabbed|toggle split'")
		}
		*current = l
	}

	if h.Arranger != nil {
		h.Arranger.Node(target)
	}
	return success()
}

// parseBoolean reads a yes/no word; "toggle" inverts current.
func parseBoolean(s string, current bool) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "on", "true", "enable", "enabled", "active":
		return true
	case "toggle":
		return !current
	default:
		return false
	}
}
