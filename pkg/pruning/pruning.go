// Package pruning provides operator pruning methods applied before expansion.
package pruning

import (
	"log/slog"
	"time"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
)

// Null keeps every operator.
type Null struct{}

var _ ports.PruningMethod = Null{}

func (Null) Initialize(ports.Task) {}

func (Null) PruneOperators(_ domain.State, ops []domain.OperatorID) []domain.OperatorID {
	return ops
}

// Tracked decorates a pruning method with successor counts and timing.
type Tracked struct {
	inner  ports.PruningMethod
	logger *slog.Logger
	stats  ports.PruningStatistics
}

var _ ports.PruningMethod = (*Tracked)(nil)

// NewTracked wraps inner. A nil logger disables the summary line.
func NewTracked(inner ports.PruningMethod, logger *slog.Logger) *Tracked {
	return &Tracked{inner: inner, logger: logger}
}

func (t *Tracked) Initialize(task ports.Task) {
	t.inner.Initialize(task)
}

func (t *Tracked) PruneOperators(state domain.State, ops []domain.OperatorID) []domain.OperatorID {
	start := time.Now()
	t.stats.SuccessorsBefore += int64(len(ops))
	ops = t.inner.PruneOperators(state, ops)
	t.stats.SuccessorsAfter += int64(len(ops))
	t.stats.Elapsed += time.Since(start)
	return ops
}

// Statistics returns the accumulated counts.
func (t *Tracked) Statistics() ports.PruningStatistics {
	return t.stats
}

// Log prints the pruning summary.
func (t *Tracked) Log() {
	if t.logger == nil {
		return
	}
	ratio := 0.0
	if t.stats.SuccessorsBefore > 0 {
		ratio = 1 - float64(t.stats.SuccessorsAfter)/float64(t.stats.SuccessorsBefore)
	}
	t.logger.Info("pruning statistics",
		"successors_before", t.stats.SuccessorsBefore,
		"successors_after", t.stats.SuccessorsAfter,
		"pruning_ratio", ratio,
		"time", t.stats.Elapsed,
	)
}

// Func adapts a plain function into a pruning method.
type Func func(state domain.State, ops []domain.OperatorID) []domain.OperatorID

func (f Func) Initialize(ports.Task) {}

func (f Func) PruneOperators(state domain.State, ops []domain.OperatorID) []domain.OperatorID {
	return f(state, ops)
}
