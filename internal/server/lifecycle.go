// Package server ties the long-running pieces of the shard daemon into
// one supervised unit with an ordered shutdown.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is one long-running component of the daemon. Start blocks for
// the service's whole life; Stop asks it to wind down and return.
type Service interface {
	Start() error
	Stop()
}

// FuncService lifts a pair of functions into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }
func (f *FuncService) Stop()        { f.StopFn() }

// Lifecycle supervises a fixed set of services: all of them run
// concurrently, and the first failure, termination signal, or context
// cancellation winds the whole set down in reverse registration order.
//
// Add every service before calling Run; the set is fixed once running.
type Lifecycle struct {
	logger *zap.Logger
	names  []string
	svcs   []Service
}

// NewLifecycle creates an empty supervisor.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers svc under name. Registration order is start order;
// shutdown runs in reverse.
func (l *Lifecycle) Add(name string, svc Service) {
	l.names = append(l.names, name)
	l.svcs = append(l.svcs, svc)
}

// Run launches every registered service and blocks until one of them
// fails, the context is cancelled, or the process receives SIGINT or
// SIGTERM. It then stops the set and returns the failure that ended the
// run, if any.
func (l *Lifecycle) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := make(chan error, len(l.svcs))
	for i, svc := range l.svcs {
		svc := svc
		name := l.names[i]
		go func() {
			l.logger.Info("service starting", zap.String("name", name))
			if err := svc.Start(); err != nil {
				failed <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}
	l.logger.Info("supervisor running", zap.Int("services", len(l.svcs)))

	var cause error
	select {
	case cause = <-failed:
		l.logger.Error("service failed, winding down", zap.Error(cause))
	case <-ctx.Done():
		l.logger.Info("winding down")
	}

	l.stopAll()
	return cause
}

// stopAll stops the services in reverse registration order, waiting for
// each Stop to return before moving on.
func (l *Lifecycle) stopAll() {
	began := time.Now()
	for i := len(l.svcs) - 1; i >= 0; i-- {
		l.logger.Info("service stopping", zap.String("name", l.names[i]))
		l.svcs[i].Stop()
	}
	l.logger.Info("shutdown complete", zap.Duration("elapsed", time.Since(began)))
}
