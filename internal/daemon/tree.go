package daemon

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/config"
	"github.com/1broseidon/tiletree/internal/layoutfile"
	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/tree"
	"github.com/1broseidon/tiletree/internal/x11"
)

// MonitorSource lists physical monitors. x11.Connection.Monitors is the
// production implementation.
type MonitorSource func() ([]x11.Monitor, error)

// InitialTree builds the starting tree. A layout file wins; otherwise
// outputs come from monitors (when use_x11_outputs is set and monitors is
// non-nil) and finally from the configured outputs.
func InitialTree(cfg *config.Config, monitors MonitorSource, logger *zap.Logger) (*tree.Root, *seat.Seat, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := seat.New("seat0")

	if cfg.LayoutFile != "" {
		path := config.ExpandHome(cfg.LayoutFile)
		f, err := layoutfile.Load(path)
		if err != nil {
			return nil, nil, err
		}
		root, focused, err := layoutfile.Build(f, cfg.Layout())
		if err != nil {
			return nil, nil, fmt.Errorf("layout file %q: %w", path, err)
		}
		if focused != nil {
			s.SetFocus(focused)
		} else {
			focusFirstOutput(root, s)
		}
		s.PrevWorkspaceName = f.PrevWorkspace
		logger.Info("tree loaded from layout file",
			zap.String("path", path),
			zap.Int("containers", f.Count()))
		return root, s, nil
	}

	outputs := cfg.Outputs
	if cfg.UseX11Outputs && monitors != nil {
		found, err := monitors()
		switch {
		case err != nil:
			logger.Warn("monitor discovery failed; using configured outputs", zap.Error(err))
		case len(found) == 0:
			logger.Warn("no active monitors found; using configured outputs")
		default:
			outputs = outputsFromMonitors(found, cfg.Outputs)
		}
	}
	if len(outputs) == 0 {
		return nil, nil, fmt.Errorf("no outputs configured")
	}

	root := tree.NewRoot()
	seen := make(map[string]struct{})
	for i, oc := range outputs {
		out := root.AddOutput(oc.Name, oc.Rect())
		names := oc.Workspaces
		if len(names) == 0 {
			names = []string{strconv.Itoa(i + 1)}
		}
		for _, name := range names {
			if _, dup := seen[name]; dup {
				return nil, nil, fmt.Errorf("workspace %q assigned twice", name)
			}
			seen[name] = struct{}{}
			root.AddWorkspace(out, name)
		}
		logger.Debug("output added",
			zap.String("output", oc.Name),
			zap.Strings("workspaces", names))
	}
	if err := root.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid tree: %w", err)
	}
	focusFirstOutput(root, s)
	return root, s, nil
}

// outputsFromMonitors keeps the workspace names of configured outputs that
// share a monitor's name. The primary monitor goes first so it receives
// the initial focus.
func outputsFromMonitors(monitors []x11.Monitor, configured []config.OutputConfig) []config.OutputConfig {
	byName := make(map[string]config.OutputConfig, len(configured))
	for _, oc := range configured {
		byName[oc.Name] = oc
	}

	ordered := make([]x11.Monitor, 0, len(monitors))
	for _, m := range monitors {
		if m.Primary {
			ordered = append(ordered, m)
		}
	}
	for _, m := range monitors {
		if !m.Primary {
			ordered = append(ordered, m)
		}
	}

	out := make([]config.OutputConfig, 0, len(ordered))
	for _, m := range ordered {
		oc := config.OutputConfig{
			Name:   m.Name,
			X:      m.Rect.X,
			Y:      m.Rect.Y,
			Width:  m.Rect.Width,
			Height: m.Rect.Height,
		}
		if known, ok := byName[m.Name]; ok {
			oc.Workspaces = known.Workspaces
		}
		out = append(out, oc)
	}
	return out
}

func focusFirstOutput(root *tree.Root, s *seat.Seat) {
	outputs := root.Outputs()
	if len(outputs) == 0 {
		return
	}
	if ws := tree.ActiveWorkspace(outputs[0]); ws != nil {
		s.SetFocus(s.FocusInactive(ws))
	}
}
