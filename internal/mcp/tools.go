package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/commands"
)

// swapCommand renders the swap_containers input as a command line.
func swapCommand(args SwapContainersInput) (string, error) {
	var targets []string
	if args.TargetConID != 0 {
		targets = append(targets, fmt.Sprintf("con_id %d", args.TargetConID))
	}
	if args.TargetWindowID != 0 {
		targets = append(targets, fmt.Sprintf("id %d", args.TargetWindowID))
	}
	if args.TargetMark != "" {
		targets = append(targets, "mark "+commands.Quote(args.TargetMark))
	}
	switch len(targets) {
	case 0:
		return "", fmt.Errorf("one of target_con_id, target_window_id or target_mark is required")
	case 1:
	default:
		return "", fmt.Errorf("only one of target_con_id, target_window_id or target_mark may be set")
	}

	line := "swap container with " + targets[0]
	if args.ConID != 0 {
		line = fmt.Sprintf("[con_id=%d] %s", args.ConID, line)
	}
	return line, nil
}

func (s *Server) run(line string) (CommandOutput, error) {
	res, err := s.client.RunCommand(line)
	if err != nil {
		return CommandOutput{}, err
	}
	s.logger.Debug("tool command",
		zap.String("command", line),
		zap.String("status", string(res.Status)))
	return CommandOutput{Command: line, Status: string(res.Status), Error: res.Error}, nil
}

func (s *Server) handleSwapContainers(_ context.Context, _ *mcpsdk.CallToolRequest, args SwapContainersInput) (*mcpsdk.CallToolResult, CommandOutput, error) {
	line, err := swapCommand(args)
	if err != nil {
		return nil, CommandOutput{}, err
	}
	out, err := s.run(line)
	return nil, out, err
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, CommandOutput, error) {
	line := strings.TrimSpace(args.Command)
	if line == "" {
		return nil, CommandOutput{}, fmt.Errorf("command is required")
	}
	out, err := s.run(line)
	return nil, out, err
}

func (s *Server) handleGetTree(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetTreeInput) (*mcpsdk.CallToolResult, GetTreeOutput, error) {
	f, err := s.client.GetTree()
	if err != nil {
		return nil, GetTreeOutput{}, err
	}
	return nil, GetTreeOutput{Tree: f, Containers: f.Count()}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{Status: status}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	s.logger.Info("config reload requested")
	return nil, ReloadConfigOutput{Reloaded: true}, nil
}
