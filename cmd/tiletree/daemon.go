package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/1broseidon/tiletree/internal/config"
	"github.com/1broseidon/tiletree/internal/daemon"
	"github.com/1broseidon/tiletree/internal/ipc"
	"github.com/1broseidon/tiletree/internal/logging"
	"github.com/1broseidon/tiletree/internal/runtimepath"
	"github.com/1broseidon/tiletree/internal/telemetry"
	"github.com/1broseidon/tiletree/internal/x11"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/tiletree/config.yaml)")
	socketPath := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/tiletree.sock)")
	console := fs.Bool("console", false, "Mirror logs to stderr")
	noWatch := fs.Bool("no-watch", false, "Do not reload the config file when it changes")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tiletree daemon [--config PATH] [--socket PATH] [--console] [--no-watch]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the tree daemon in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	lc := cfg.GetLogConfig()
	logger, err := logging.New(logging.Config{
		Level:      lc.Level,
		File:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
		Console:    lc.Console || *console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		return 1
	}
	defer logger.Close()
	logger.Info("configuration loaded",
		zap.Strings("files", res.Files),
		zap.Int("gap_size", cfg.GapSize),
		zap.String("default_layout", cfg.DefaultLayout))

	lockPath, err := runtimepath.LockPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fl, err := daemon.AcquireLock(lockPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer daemon.ReleaseLock(fl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		tp = telemetry.Disabled()
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	root, s, err := daemon.InitialTree(cfg, x11Monitors(cfg.Display), logger.Logger)
	if err != nil {
		logger.Error("failed to build initial tree", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to build initial tree: %v\n", err)
		return 1
	}

	d, err := daemon.New(daemon.Options{
		Config:     cfg,
		ConfigPath: path,
		Root:       root,
		Seat:       s,
		Logger:     logger,
		Telemetry:  tp,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	sock := *socketPath
	if sock == "" {
		if sock, err = runtimepath.SocketPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	server := ipc.NewServer(sock, d, logger.Logger)
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to start IPC server: %v\n", err)
		return 1
	}
	defer server.Stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: 30 * time.Second,
		Logger:   logger.Logger,
	}, d)
	go reconciler.Run(ctx)

	if !*noWatch {
		go func() {
			if err := d.WatchConfig(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config")
				if err := d.Reload(ctx); err != nil {
					logger.Warn("config reload failed", zap.Error(err))
				}
			default:
				logger.Info("shutting down", zap.String("signal", sig.String()))
				cancel()
				return
			}
		}
	}()

	logger.Info("tiletree daemon started", zap.String("socket", sock))
	d.Run(ctx)
	return 0
}

// x11Monitors opens a short-lived X connection for monitor discovery.
func x11Monitors(display string) daemon.MonitorSource {
	return func() ([]x11.Monitor, error) {
		conn, err := x11.Connect(display)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return conn.Monitors()
	}
}
