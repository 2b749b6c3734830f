package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/commands"
	"github.com/1broseidon/tiletree/internal/layoutfile"
)

// requestTimeout bounds how long one request may wait on the daemon.
const requestTimeout = 5 * time.Second

// Backend executes requests. The daemon implements it.
type Backend interface {
	RunCommand(ctx context.Context, line string) (commands.Result, error)
	Tree(ctx context.Context) (*layoutfile.File, error)
	Status(ctx context.Context) (StatusData, error)
	Reload(ctx context.Context) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	backend      Backend
	logger       *zap.Logger
	wg           sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server that will listen on socketPath.
func NewServer(socketPath string, backend Backend, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		socketPath: socketPath,
		backend:    backend,
		logger:     logger.Named("ipc"),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon. The instance lock
	// guarantees no live daemon owns it.
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves a single newline-delimited JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(requestTimeout + time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", zap.Error(err))
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	s.writeResponse(conn, s.handleCommand(ctx, req))
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", zap.String("command", string(req.Command)))

	switch req.Command {
	case CommandRunCommand:
		return s.handleRunCommand(ctx, req.Payload)
	case CommandGetTree:
		return s.handleGetTree(ctx)
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandReload:
		return s.handleReload(ctx)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleRunCommand(ctx context.Context, payload json.RawMessage) *Response {
	var p RunCommandPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	res, err := s.backend.RunCommand(ctx, p.Command)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to run command: %v", err))
	}
	return okResponse(res)
}

func (s *Server) handleGetTree(ctx context.Context) *Response {
	f, err := s.backend.Tree(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get tree: %v", err))
	}
	return okResponse(f)
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status, err := s.backend.Status(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	return okResponse(status)
}

func (s *Server) handleReload(ctx context.Context) *Response {
	s.logger.Info("IPC: received RELOAD")
	if err := s.backend.Reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return okResponse(nil)
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		s.logger.Warn("failed to send response", zap.Error(err))
	}
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
