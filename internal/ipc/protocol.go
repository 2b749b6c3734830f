package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandRunCommand CommandType = "RUN_COMMAND"
	CommandGetTree    CommandType = "GET_TREE"
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandReload     CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RunCommandPayload carries one command line for RUN_COMMAND.
type RunCommandPayload struct {
	Command string `json:"command"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds    int64  `json:"uptime_seconds"`
	DaemonRunning    bool   `json:"daemon_running"`
	Outputs          int    `json:"outputs"`
	Workspaces       int    `json:"workspaces"`
	Containers       int    `json:"containers"`
	FocusedID        uint64 `json:"focused_id,omitempty"`
	FocusedName      string `json:"focused_name,omitempty"`
	FocusedWorkspace string `json:"focused_workspace,omitempty"`
	CommandsRun      uint64 `json:"commands_run"`
	LogLevel         string `json:"log_level"`
	TracingEnabled   bool   `json:"tracing_enabled"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
