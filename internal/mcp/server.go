// Package mcp exposes the daemon's commands as Model Context Protocol tools.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/commands"
	"github.com/1broseidon/tiletree/internal/ipc"
	"github.com/1broseidon/tiletree/internal/layoutfile"
)

const (
	ServerName    = "tiletree"
	ServerVersion = "0.1.0"
)

// DaemonClient is the subset of ipc.Client the tools call.
type DaemonClient interface {
	RunCommand(line string) (*commands.Result, error)
	GetTree() (*layoutfile.File, error)
	GetStatus() (*ipc.StatusData, error)
	Reload() error
}

// Server is the MCP server forwarding tool calls to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
	logger    *zap.Logger
}

// NewServer creates a server that talks to the daemon through client.
func NewServer(client DaemonClient, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		client: client,
		logger: logger.Named("mcp"),
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "swap_containers",
		Description: "Swap two containers in the tree. Each takes the other's position, size and fullscreen state. The source defaults to the focused container; give exactly one target: target_con_id, target_window_id or target_mark.",
	}, s.handleSwapContainers)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run one command line in the daemon, optionally prefixed by a criteria block. Supported commands: swap, focus, mark, unmark, workspace, fullscreen, layout. Returns success, failure or invalid with the error message.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_tree",
		Description: "Return the current tree: outputs, workspaces and containers with their ids, marks, geometry and focus.",
	}, s.handleGetTree)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Return daemon status: uptime, counts of outputs, workspaces and containers, and the focused container.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Ask the daemon to re-read its configuration file.",
	}, s.handleReloadConfig)
}
