package runtime

import (
	"log/slog"

	"github.com/aretw0/thicket/pkg/evaluation"
)

// progress tracks the best value seen per reporting or boosting evaluator.
type progress struct {
	best   map[evaluation.Evaluator]int
	logger *slog.Logger
	// onImprove is called for every new best value.
	onImprove func(e evaluation.Evaluator, value int, boosting bool)
}

func newProgress(logger *slog.Logger) *progress {
	return &progress{best: make(map[evaluation.Evaluator]int), logger: logger}
}

// check records the results of ctx and reports whether an evaluator used
// for boosting reached a strictly better value.
func (p *progress) check(ctx *evaluation.Context) bool {
	boost := false
	ctx.ForEachResult(func(e evaluation.Evaluator, r evaluation.Result) {
		reporting, boosting := e.UsedForReportingMinima(), e.UsedForBoosting()
		if !reporting && !boosting || r.IsInfinite() {
			return
		}
		if old, seen := p.best[e]; seen && r.Value >= old {
			return
		}
		p.best[e] = r.Value
		if reporting {
			p.logger.Info("new best heuristic value", "evaluator", e.Description(), "value", r.Value)
		}
		if boosting {
			boost = true
		}
		if p.onImprove != nil {
			p.onImprove(e, r.Value, boosting)
		}
	})
	return boost
}

// Best returns the best value recorded for e.
func (p *progress) Best(e evaluation.Evaluator) (int, bool) {
	v, ok := p.best[e]
	return v, ok
}
