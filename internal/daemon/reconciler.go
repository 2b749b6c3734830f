package daemon

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// Reconciler periodically checks the tree's structural invariants and
// logs any drift.
type Reconciler struct {
	interval time.Duration
	daemon   *Daemon
	logger   *zap.Logger
}

// NewReconciler creates a reconciler for d.
func NewReconciler(cfg ReconcilerConfig, d *Daemon) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		interval: interval,
		daemon:   d,
		logger:   logger.Named("reconciler"),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.ReconcileNow(ctx)
		}
	}
}

// ReconcileNow validates the tree once and returns the violation, if any.
func (r *Reconciler) ReconcileNow(ctx context.Context) error {
	var verr error
	err := r.daemon.do(ctx, func() {
		// A broken tree must not take the daemon down with it.
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("reconciler panic recovered", zap.Any("panic", p))
			}
		}()
		verr = r.daemon.root.Validate()
	})
	if err != nil {
		return err
	}
	if verr != nil {
		r.logger.Error("tree invariant violated", zap.Error(verr))
	}
	return verr
}
