package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/ports"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger for search output.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithReopenClosed moves CLOSED nodes back to OPEN when a cheaper path is found.
func WithReopenClosed(reopen bool) EngineOption {
	return func(e *Engine) {
		e.reopenClosed = reopen
	}
}

// WithBound skips every successor whose real cost reaches bound.
func WithBound(bound int) EngineOption {
	return func(e *Engine) {
		e.bound = bound
	}
}

// WithMaxTime stops Search with StatusTimeout after d of wall-clock time.
// Zero means no limit.
func WithMaxTime(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.maxTime = d
	}
}

// WithMaxExpansions stops Search with StatusLimitReached after n expansions.
// Zero means no limit.
func WithMaxExpansions(n int64) EngineOption {
	return func(e *Engine) {
		e.maxExpansions = n
	}
}

// WithCostType changes the operator costs used for g values.
func WithCostType(ct domain.CostType) EngineOption {
	return func(e *Engine) {
		e.costType = ct
	}
}

// WithFEvaluator reports f value jumps of eval in the statistics.
func WithFEvaluator(eval evaluation.Evaluator) EngineOption {
	return func(e *Engine) {
		e.fEval = eval
	}
}

// WithPreferredEvaluators computes preferred operators from evals at expansion.
func WithPreferredEvaluators(evals ...evaluation.Evaluator) EngineOption {
	return func(e *Engine) {
		e.preferredEvals = append(e.preferredEvals, evals...)
	}
}

// WithLazyEvaluator rechecks popped nodes against eval before expansion.
// eval must cache its estimates.
func WithLazyEvaluator(eval evaluation.Evaluator) EngineOption {
	return func(e *Engine) {
		e.lazyEval = eval
	}
}

// WithPruning filters applicable operators before successor generation.
func WithPruning(p ports.PruningMethod) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.pruning = p
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}
