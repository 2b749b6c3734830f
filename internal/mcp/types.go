package mcp

import (
	"github.com/1broseidon/tiletree/internal/ipc"
)

// SwapContainersInput is the input for the swap_containers tool.
type SwapContainersInput struct {
	ConID          uint64 `json:"con_id,omitempty" jsonschema:"Container to swap (default: the focused container)"`
	TargetConID    uint64 `json:"target_con_id,omitempty" jsonschema:"Swap with the container with this con_id"`
	TargetWindowID uint32 `json:"target_window_id,omitempty" jsonschema:"Swap with the container holding this X11 window id"`
	TargetMark     string `json:"target_mark,omitempty" jsonschema:"Swap with the container carrying this mark"`
}

// CommandOutput is the output of every tool that runs a command.
type CommandOutput struct {
	Command string `json:"command"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"Command line, e.g. [con_mark=term] focus or swap container with mark web"`
}

// GetTreeInput is the input for the get_tree tool.
type GetTreeInput struct{}

// GetTreeOutput is the output for the get_tree tool. Tree holds a
// *layoutfile.File; it is typed any because nodes nest recursively.
type GetTreeOutput struct {
	Tree       any `json:"tree"`
	Containers int `json:"containers"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Status *ipc.StatusData `json:"status"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}
