package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/thicket/internal/logging"
	"github.com/aretw0/thicket/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// LogOptions selects the diagnostic output. Logs always go to stderr.
type LogOptions struct {
	Debug   bool
	Verbose bool
	JSON    bool
}

// CreateLogger configures the application logger. Without Debug or Verbose
// only warnings and errors are written.
func CreateLogger(opts LogOptions) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case opts.Debug:
		level = slog.LevelDebug
	case opts.Verbose:
		level = slog.LevelInfo
	}
	return logging.New(logging.Options{Level: level, JSON: opts.JSON})
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExpand: func(ctx context.Context, e *domain.ExpandEvent) {
			logger.Debug("expand", "state", e.StateID, "g", e.G, "expanded", e.Expanded)
		},
		OnProgress: func(ctx context.Context, e *domain.ProgressEvent) {
			logger.Debug("progress", "evaluator", e.Evaluator, "value", e.Value, "boosted", e.Boosted)
		},
		OnFJump: func(ctx context.Context, e *domain.FJumpEvent) {
			logger.Debug("f jump", "f", e.F)
		},
		OnSolved: func(ctx context.Context, e *domain.SolvedEvent) {
			logger.Debug("solved", "cost", e.Cost, "length", e.Length)
		},
	}
}
