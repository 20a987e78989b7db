// Package server coordinates the long-running pieces of the API server.
// Each piece registers as a Service; services start in registration order
// and drain in reverse order on SIGINT/SIGTERM or on the first failure.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component under lifecycle management.
type Service interface {
	// Start runs the service. It must block until the service is stopped
	// or fails.
	Start() error
	// Stop drains the service. It should return once in-flight work is
	// finished or abandoned.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// slowStopWarning is how long a draining service may take before the
// shutdown log flags it. The HTTP listener's own grace period is
// configured below this bound.
const slowStopWarning = 15 * time.Second

// Lifecycle starts registered services and drains them in reverse order.
type Lifecycle struct {
	logger  *zap.Logger
	entries []entry
	mu      sync.Mutex
}

type entry struct {
	name string
	svc  Service
}

// NewLifecycle creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Services start in the order they are
// added and stop in the reverse order.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{name: name, svc: svc})
}

// Run starts every registered service and blocks until SIGINT/SIGTERM,
// context cancellation, or a service failure, then drains all services in
// reverse order.
//
// Postcondition: Returns nil after a clean signal- or context-initiated
// shutdown; returns the triggering error when a service failed and forced
// the rest down.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(l.entries))
	for _, e := range l.entries {
		e := e
		go func() {
			l.logger.Info("service starting", zap.String("service", e.name))
			if err := e.svc.Start(); err != nil {
				errCh <- fmt.Errorf("service %s: %w", e.name, err)
				cancel()
			}
		}()
	}

	l.logger.Info("services running",
		zap.Int("count", len(l.entries)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var cause error
	select {
	case sig := <-sigCh:
		l.logger.Info("signal received, draining",
			zap.String("signal", sig.String()),
		)
	case cause = <-errCh:
		l.logger.Error("service failed, draining the rest", zap.Error(cause))
	case <-ctx.Done():
		l.logger.Info("context cancelled, draining")
	}

	l.drain()

	l.logger.Info("shutdown complete",
		zap.Duration("uptime", time.Since(start)),
	)
	return cause
}

// drain stops services in reverse registration order, flagging any that
// exceed the slow-stop bound.
func (l *Lifecycle) drain() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		stopStart := time.Now()
		e.svc.Stop()
		elapsed := time.Since(stopStart)
		if elapsed > slowStopWarning {
			l.logger.Warn("service drained slowly",
				zap.String("service", e.name),
				zap.Duration("elapsed", elapsed),
			)
			continue
		}
		l.logger.Info("service stopped",
			zap.String("service", e.name),
			zap.Duration("elapsed", elapsed),
		)
	}
}
