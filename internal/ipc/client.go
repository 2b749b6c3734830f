package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tiletree/internal/commands"
	"github.com/1broseidon/tiletree/internal/layoutfile"
	"github.com/1broseidon/tiletree/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// RunCommand executes one command line in the daemon.
func (c *Client) RunCommand(line string) (*commands.Result, error) {
	payload, err := json.Marshal(RunCommandPayload{Command: line})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandRunCommand, Payload: payload})
	if err != nil {
		return nil, err
	}

	var res commands.Result
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse command result: %w", err)
	}
	return &res, nil
}

// GetTree retrieves a snapshot of the daemon's tree.
func (c *Client) GetTree() (*layoutfile.File, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetTree})
	if err != nil {
		return nil, err
	}

	var f layoutfile.File
	if err := json.Unmarshal(resp.Data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tree data: %w", err)
	}
	return &f, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Reload asks the daemon to re-read its configuration.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
