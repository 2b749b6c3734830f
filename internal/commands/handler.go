// Package commands turns textual commands into tree operations.
package commands

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/arrange"
	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/swap"
	"github.com/1broseidon/tiletree/internal/tree"
)

// Status is the outcome class of a command.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure" // well-formed but could not be carried out
	StatusInvalid Status = "invalid" // malformed
)

// Result is returned for every command.
type Result struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Success reports whether the command succeeded.
func (r Result) Success() bool { return r.Status == StatusSuccess }

func success() Result { return Result{Status: StatusSuccess} }

func failure(format string, args ...any) Result {
	return Result{Status: StatusFailure, Error: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) Result {
	return Result{Status: StatusInvalid, Error: fmt.Sprintf(format, args...)}
}

// Handler executes commands against one tree and seat.
type Handler struct {
	Root     *tree.Root
	Seat     *seat.Seat
	Swapper  *swap.Swapper
	Arranger *arrange.Arranger
	Logger   *zap.Logger
}

// NewHandler wires a handler; the swapper shares root, seat and logger.
func NewHandler(root *tree.Root, s *seat.Seat, arranger *arrange.Arranger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Root:     root,
		Seat:     s,
		Swapper:  swap.New(root, s, logger),
		Arranger: arranger,
		Logger:   logger,
	}
}

// context is the state of a single command invocation.
type context struct {
	// container the command applies to: the criteria match, or the
	// focused container.
	container *tree.Container
	// criteria is true when a criteria block selected container.
	criteria bool
}

// Run parses and executes one command line.
func (h *Handler) Run(line string) Result {
	block, rest, err := splitCriteria(line)
	if err != nil {
		return invalid("%v", err)
	}
	args, err := Split(rest)
	if err != nil {
		return invalid("%v", err)
	}
	if len(args) == 0 {
		return invalid("empty command")
	}

	ctx := context{container: h.Seat.FocusedContainer()}
	if block != "" {
		crit, err := ParseCriteria(block)
		if err != nil {
			return invalid("%v", err)
		}
		ctx.container = h.Root.FindContainer(crit.Matches)
		ctx.criteria = true
		if ctx.container == nil {
			return failure("No matching node.")
		}
	}

	name := strings.ToLower(args[0])
	h.Logger.Debug("running command", zap.String("command", name), zap.Strings("args", args[1:]))

	var res Result
	switch name {
	case "swap":
		res = h.cmdSwap(ctx, args[1:])
	case "focus":
		res = h.cmdFocus(ctx, args[1:])
	case "mark":
		res = h.cmdMark(ctx, args[1:])
	case "unmark":
		res = h.cmdUnmark(ctx, args[1:])
	case "workspace":
		res = h.cmdWorkspace(args[1:])
	case "fullscreen":
		res = h.cmdFullscreen(ctx, args[1:])
	case "layout":
		res = h.cmdLayout(ctx, args[1:])
	default:
		res = invalid("Unknown/invalid command '%s'", args[0])
	}

	if !res.Success() {
		h.Logger.Info("command rejected",
			zap.String("command", name),
			zap.String("status", string(res.Status)),
			zap.String("error", res.Error),
		)
	}
	return res
}

func checkAtLeast(name string, args []string, n int) *Result {
	if len(args) >= n {
		return nil
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	r := invalid("Invalid %s command (expected at least %d argument%s, got %d)", name, n, plural, len(args))
	return &r
}
