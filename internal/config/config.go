package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tiletree/internal/tree"
)

// LogConfig configures the daemon log.
type LogConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is the log file path (default: ~/.local/share/tiletree/tiletree.log)
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
	// Console mirrors log output to stderr.
	Console bool `yaml:"console"`
}

// OutputConfig describes a static output, used when X11 outputs are
// disabled or unavailable.
type OutputConfig struct {
	Name       string   `yaml:"name"`
	X          int      `yaml:"x"`
	Y          int      `yaml:"y"`
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Workspaces []string `yaml:"workspaces,omitempty"` // created in order; default one named after the output index
}

// Rect returns the output geometry.
func (o OutputConfig) Rect() tree.Rect {
	return tree.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// TelemetryConfig configures trace export. An empty endpoint disables export.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint,omitempty"`
	ServiceName string `yaml:"service_name,omitempty"`
	Insecure    bool   `yaml:"insecure,omitempty"`
}

// StringList decodes from a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
}

// Config is the daemon configuration.
type Config struct {
	Include StringList `yaml:"include,omitempty"`

	Log LogConfig `yaml:"log"`

	// StrictAssertions panics on swap precondition violations instead of
	// logging them.
	StrictAssertions bool `yaml:"strict_assertions"`

	GapSize        int    `yaml:"gap_size"`
	TitleBarHeight int    `yaml:"title_bar_height"`
	DefaultLayout  string `yaml:"default_layout"`

	// LayoutFile seeds the initial tree when set.
	LayoutFile string `yaml:"layout_file,omitempty"`

	UseX11Outputs bool           `yaml:"use_x11_outputs"`
	Display       string         `yaml:"display,omitempty"`
	Outputs       []OutputConfig `yaml:"outputs,omitempty"`

	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		GapSize:        4,
		TitleBarHeight: 20,
		DefaultLayout:  "splith",
		UseX11Outputs:  true,
		Outputs: []OutputConfig{
			{Name: "default", Width: 1920, Height: 1080, Workspaces: []string{"1"}},
		},
		Telemetry: TelemetryConfig{
			ServiceName: "tiletree",
		},
	}
}

// GetLogConfig returns the log settings with file and rotation defaults
// filled in.
func (c *Config) GetLogConfig() LogConfig {
	if c == nil {
		return LogConfig{Level: "info"}
	}
	cfg := c.Log
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/tiletree/tiletree.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Layout returns the parsed default layout.
func (c *Config) Layout() tree.Layout {
	l, err := tree.ParseLayout(strings.ToLower(c.DefaultLayout))
	if err != nil || l == tree.LayoutNone {
		return tree.LayoutSplitH
	}
	return l
}

func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return &ValidationError{Path: "log", Err: fmt.Errorf("rotation values must be >= 0")}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if c.TitleBarHeight < 0 {
		return &ValidationError{Path: "title_bar_height", Err: fmt.Errorf("title_bar_height must be >= 0")}
	}
	if l, err := tree.ParseLayout(strings.ToLower(c.DefaultLayout)); err != nil || l == tree.LayoutNone {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("default_layout must be one of: splith, splitv, stacking, tabbed")}
	}

	if len(c.Outputs) == 0 && !c.UseX11Outputs && c.LayoutFile == "" {
		return &ValidationError{Path: "outputs", Err: fmt.Errorf("outputs must not be empty when use_x11_outputs is false and no layout_file is set")}
	}
	outputs := make(map[string]struct{})
	workspaces := make(map[string]struct{})
	for i, o := range c.Outputs {
		path := fmt.Sprintf("outputs[%d]", i)
		if strings.TrimSpace(o.Name) == "" {
			return &ValidationError{Path: "outputs", Err: fmt.Errorf("%s: name is required", path)}
		}
		if _, dup := outputs[o.Name]; dup {
			return &ValidationError{Path: "outputs", Err: fmt.Errorf("duplicate output %q", o.Name)}
		}
		outputs[o.Name] = struct{}{}
		if o.Width <= 0 || o.Height <= 0 {
			return &ValidationError{Path: "outputs", Err: fmt.Errorf("output %q must have positive width and height", o.Name)}
		}
		for _, ws := range o.Workspaces {
			if strings.TrimSpace(ws) == "" {
				return &ValidationError{Path: "outputs", Err: fmt.Errorf("output %q has an empty workspace name", o.Name)}
			}
			if _, dup := workspaces[ws]; dup {
				return &ValidationError{Path: "outputs", Err: fmt.Errorf("workspace %q assigned twice", ws)}
			}
			workspaces[ws] = struct{}{}
		}
	}

	if c.Telemetry.Endpoint != "" && strings.Contains(c.Telemetry.Endpoint, "://") {
		return &ValidationError{Path: "telemetry.endpoint", Err: fmt.Errorf("endpoint must be host:port without a scheme")}
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
