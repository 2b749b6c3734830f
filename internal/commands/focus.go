package commands

import (
	"strings"

	"github.com/1broseidon/tiletree/internal/tree"
)

// cmdFocus focuses the selected container. Only criteria focus is
// supported; directional focus is not.
func (h *Handler) cmdFocus(ctx context, args []string) Result {
	if len(args) > 0 {
		return invalid("Expected 'focus' with criteria")
	}
	if ctx.container == nil {
		return failure("No container to focus")
	}
	if !focusable(ctx.container) {
		return failure("Container is not on an output")
	}
	h.Seat.SetFocus(ctx.container)
	return success()
}

// cmdWorkspace implements: workspace <name> | workspace back_and_forth
func (h *Handler) cmdWorkspace(args []string) Result {
	if r := checkAtLeast("workspace", args, 1); r != nil {
		return *r
	}
	if len(h.Root.Outputs()) == 0 {
		return invalid("Can't run this command while there's no outputs connected.")
	}

	name := strings.Join(args, " ")
	if strings.EqualFold(name, "back_and_forth") {
		if h.Seat.PrevWorkspaceName == "" {
			return failure("There is no previous workspace.")
		}
		name = h.Seat.PrevWorkspaceName
	}

	ws := h.Root.WorkspaceByName(name)
	if ws == nil {
		out := h.Root.Outputs()[0]
		if cur := h.Seat.FocusedWorkspace(); cur != nil && cur.Output() != nil {
			out = cur.Output()
		}
		ws = h.Root.AddWorkspace(out, name)
		h.Logger.Sugar().Debugf("created workspace %q on %s", name, out.Name)
	}

	h.Seat.SetFocus(h.Seat.FocusInactive(ws))
	if h.Arranger != nil {
		h.Arranger.Workspace(ws)
	}
	return success()
}

// focusable reports whether n sits on an output.
func focusable(n tree.Node) bool {
	switch v := n.(type) {
	case *tree.Container:
		return v.Mapped()
	case *tree.Workspace:
		return v.Output() != nil
	}
	return false
}
