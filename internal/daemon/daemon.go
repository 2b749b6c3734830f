// Package daemon owns the live tree. Every read and write of the tree runs
// on one goroutine; IPC requests, config reloads and the reconciler submit
// jobs to it.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/arrange"
	"github.com/1broseidon/tiletree/internal/commands"
	"github.com/1broseidon/tiletree/internal/config"
	"github.com/1broseidon/tiletree/internal/ipc"
	"github.com/1broseidon/tiletree/internal/layoutfile"
	"github.com/1broseidon/tiletree/internal/logging"
	"github.com/1broseidon/tiletree/internal/seat"
	"github.com/1broseidon/tiletree/internal/telemetry"
	"github.com/1broseidon/tiletree/internal/tree"
)

// ErrStopped is returned for jobs submitted after Run has returned.
var ErrStopped = errors.New("daemon is not running")

// Options configures a Daemon.
type Options struct {
	Config     *config.Config
	ConfigPath string // re-read by Reload; empty uses the default path
	Root       *tree.Root
	Seat       *seat.Seat
	Logger     *logging.Logger
	Telemetry  *telemetry.Provider
}

// Daemon serializes access to the tree and implements ipc.Backend.
type Daemon struct {
	configPath string
	cfg        *config.Config

	root     *tree.Root
	seat     *seat.Seat
	handler  *commands.Handler
	arranger *arrange.Arranger

	logger    *logging.Logger
	telemetry *telemetry.Provider
	tracer    oteltrace.Tracer

	jobs    chan func()
	stopped chan struct{}
	started time.Time
	running atomic.Bool

	commandsRun atomic.Uint64
}

// New wires a daemon around an existing tree. Call Run to start serving.
func New(opts Options) (*Daemon, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Root == nil || opts.Seat == nil {
		return nil, fmt.Errorf("tree and seat are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	arranger := arrange.New(opts.Config.GapSize, opts.Config.TitleBarHeight)
	handler := commands.NewHandler(opts.Root, opts.Seat, arranger, logger.Named("commands"))
	handler.Swapper.Strict = opts.Config.StrictAssertions
	arranger.Root(opts.Root)

	return &Daemon{
		configPath: opts.ConfigPath,
		cfg:        opts.Config,
		root:       opts.Root,
		seat:       opts.Seat,
		handler:    handler,
		arranger:   arranger,
		logger:     logger,
		telemetry:  opts.Telemetry,
		tracer:     opts.Telemetry.Tracer(),
		jobs:       make(chan func()),
		stopped:    make(chan struct{}),
		started:    time.Now(),
	}, nil
}

// Run executes submitted jobs until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) {
	d.running.Store(true)
	defer func() {
		d.running.Store(false)
		close(d.stopped)
	}()

	d.logger.Info("daemon loop started",
		zap.Int("outputs", len(d.root.Outputs())))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon loop stopped")
			return
		case job := <-d.jobs:
			job()
		}
	}
}

// do runs fn on the loop goroutine and waits for it.
func (d *Daemon) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	job := func() {
		defer close(done)
		fn()
	}

	select {
	case d.jobs <- job:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunCommand executes one command line.
func (d *Daemon) RunCommand(ctx context.Context, line string) (commands.Result, error) {
	ctx, span := d.tracer.Start(ctx, "command")
	defer span.End()
	span.SetAttributes(attribute.String("command.line", line))

	var res commands.Result
	if err := d.do(ctx, func() { res = d.handler.Run(line) }); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return commands.Result{}, err
	}
	d.commandsRun.Add(1)

	span.SetAttributes(attribute.String("command.status", string(res.Status)))
	if !res.Success() {
		span.SetStatus(codes.Error, res.Error)
	}
	return res, nil
}

// Tree snapshots the tree in layout file form.
func (d *Daemon) Tree(ctx context.Context) (*layoutfile.File, error) {
	var f *layoutfile.File
	if err := d.do(ctx, func() { f = layoutfile.FromRoot(d.root, d.seat) }); err != nil {
		return nil, err
	}
	return f, nil
}

// Status summarizes the daemon.
func (d *Daemon) Status(ctx context.Context) (ipc.StatusData, error) {
	status := ipc.StatusData{
		DaemonRunning:  d.running.Load(),
		UptimeSeconds:  int64(time.Since(d.started).Seconds()),
		CommandsRun:    d.commandsRun.Load(),
		LogLevel:       d.logger.Level().String(),
		TracingEnabled: d.telemetry.Enabled(),
	}
	err := d.do(ctx, func() {
		status.Outputs = len(d.root.Outputs())
		for _, o := range d.root.Outputs() {
			status.Workspaces += len(o.Workspaces())
		}
		d.root.Walk(func(*tree.Container) bool {
			status.Containers++
			return true
		})
		if c := d.seat.FocusedContainer(); c != nil {
			status.FocusedID = uint64(c.ID())
			status.FocusedName = c.Name
		}
		if ws := d.seat.FocusedWorkspace(); ws != nil {
			status.FocusedWorkspace = ws.Name
		}
	})
	if err != nil {
		return ipc.StatusData{}, err
	}
	return status, nil
}

// Reload re-reads the config file and applies it.
func (d *Daemon) Reload(ctx context.Context) error {
	path := d.configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	return d.ApplyConfig(ctx, res.Config)
}

// ApplyConfig swaps in the settings that can change at runtime: log level,
// gaps, title bar height and strict assertions. Output and layout file
// changes need a restart.
func (d *Daemon) ApplyConfig(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return d.do(ctx, func() {
		prev := d.cfg
		if err := d.logger.SetLevel(cfg.Log.Level); err != nil {
			d.logger.Warn("keeping previous log level", zap.Error(err))
		}
		d.arranger.GapSize = cfg.GapSize
		d.arranger.TitleBarHeight = cfg.TitleBarHeight
		d.handler.Swapper.Strict = cfg.StrictAssertions
		d.arranger.Root(d.root)
		d.cfg = cfg

		if prev.LayoutFile != cfg.LayoutFile || len(prev.Outputs) != len(cfg.Outputs) || prev.UseX11Outputs != cfg.UseX11Outputs {
			d.logger.Info("output changes take effect after a restart")
		}
		d.logger.Info("config applied",
			zap.String("log_level", cfg.Log.Level),
			zap.Int("gap_size", cfg.GapSize),
			zap.Bool("strict_assertions", cfg.StrictAssertions))
	})
}

// WatchConfig applies changes to the config file until ctx is cancelled.
func (d *Daemon) WatchConfig(ctx context.Context) error {
	path := d.configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	d.logger.Info("watching config", zap.String("path", path))
	return config.Watch(ctx, path, func(cfg *config.Config, err error) {
		if err != nil {
			d.logger.Warn("config reload failed", zap.Error(err))
			return
		}
		if err := d.ApplyConfig(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn("config rejected", zap.Error(err))
		}
	})
}

var _ ipc.Backend = (*Daemon)(nil)
