// Package strategy turns a config.Search into an open list factory and
// engine options.
package strategy

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/thicket/internal/runtime"
	"github.com/aretw0/thicket/pkg/config"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/evaluators"
	"github.com/aretw0/thicket/pkg/openlist"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/pruning"
	"github.com/aretw0/thicket/pkg/task"
)

// Setup is everything needed to build a runtime.Engine for one run.
type Setup struct {
	Factory   ports.OpenListFactory
	Options   []runtime.EngineOption
	Heuristic evaluation.Evaluator
	// Description names the configuration in logs, e.g. "astar(hmax)".
	Description string
}

// Heuristic builds the named heuristic for t.
func Heuristic(name string, t *task.Task, gen *task.SuccessorGenerator, ct domain.CostType) (evaluation.Evaluator, error) {
	switch name {
	case config.HeuristicZero:
		return evaluators.NewConst(0), nil
	case config.HeuristicBlind:
		return evaluators.NewBlind(t, ct), nil
	case config.HeuristicGoalCount:
		return evaluators.NewGoalCount(t, gen), nil
	case config.HeuristicHMax:
		return evaluators.NewHMax(t, ct), nil
	case config.HeuristicHAdd:
		return evaluators.NewHAdd(t, ct), nil
	}
	return nil, fmt.Errorf("%w: unknown heuristic %q", domain.ErrInvalidConfig, name)
}

// Build assembles the search described by cfg. logger may be nil.
func Build(t *task.Task, gen *task.SuccessorGenerator, cfg config.Search, logger *slog.Logger) (*Setup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ct, err := domain.ParseCostType(cfg.CostType)
	if err != nil {
		return nil, err
	}
	h, err := Heuristic(cfg.Heuristic, t, gen, ct)
	if err != nil {
		return nil, err
	}

	var lazy evaluation.Evaluator
	if cfg.Lazy {
		cached := evaluators.NewCached(h, evaluators.WithDirtyOnTransition())
		h, lazy = cached, cached
	}

	g := evaluators.NewG()
	var (
		f      evaluation.Evaluator
		key    []evaluation.Evaluator
		reopen bool
	)
	switch cfg.Strategy {
	case config.StrategyAStar:
		f = evaluators.NewSum(g, h)
		key = []evaluation.Evaluator{f, h}
		reopen = true
	case config.StrategyWAStar:
		f = evaluators.NewSum(g, evaluators.NewWeighted(h, cfg.Weight))
		key = []evaluation.Evaluator{f, h}
		reopen = true
	case config.StrategyGBFS:
		key = []evaluation.Evaluator{h}
	case config.StrategyUniform:
		f = g
		key = []evaluation.Evaluator{g}
		reopen = true
	}
	if cfg.Reopen != nil {
		reopen = *cfg.Reopen
	}

	s := &Setup{
		Heuristic:   h,
		Description: fmt.Sprintf("%s(%s)", cfg.Strategy, cfg.Heuristic),
		Options: []runtime.EngineOption{
			runtime.WithReopenClosed(reopen),
			runtime.WithBound(cfg.Bound),
			runtime.WithMaxTime(cfg.MaxTime),
			runtime.WithMaxExpansions(cfg.MaxExpansions),
			runtime.WithCostType(ct),
			runtime.WithPruning(pruning.NewTracked(pruning.Null{}, logger)),
		},
	}
	if f != nil {
		s.Options = append(s.Options, runtime.WithFEvaluator(f))
	}
	if lazy != nil {
		s.Options = append(s.Options, runtime.WithLazyEvaluator(lazy))
	}

	var main ports.OpenListFactory = openlist.SingleFactory{Eval: key[0]}
	if len(key) > 1 {
		main = openlist.TiebreakingFactory{Evals: key}
	}
	s.Factory = main

	if cfg.Preferred {
		s.Factory = openlist.AlternationFactory{
			Sublists: []ports.OpenListFactory{
				main,
				openlist.SingleFactory{Eval: key[0], OnlyPreferred: true},
			},
			Boost: cfg.Boost,
		}
		s.Options = append(s.Options, runtime.WithPreferredEvaluators(h))
		s.Description += "+pref"
	}
	return s, nil
}
