package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/observability"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/pruning"
	"github.com/aretw0/thicket/pkg/registry"
)

// Engine is an eager best-first search. Every generated successor is
// evaluated before it enters the open list.
type Engine struct {
	task       ports.Task
	registry   *registry.Registry
	space      *SearchSpace
	successors ports.SuccessorGenerator
	openList   ports.OpenList
	stats      *observability.Statistics
	progress   *progress

	reopenClosed   bool
	bound          int
	maxTime        time.Duration
	maxExpansions  int64
	costType       domain.CostType
	fEval          evaluation.Evaluator
	preferredEvals []evaluation.Evaluator
	lazyEval       evaluation.Evaluator
	pruning        ports.PruningMethod
	hooks          domain.LifecycleHooks
	logger         *slog.Logger

	pathDependent []evaluation.Evaluator
	applicable    []domain.OperatorID

	ctx         context.Context
	initialized bool
	status      domain.SearchStatus
	plan        domain.Plan
	planCost    int
}

var _ ports.SearchEngine = (*Engine)(nil)

// NewEngine builds a search over task. The open list is created fresh from
// factory. Configuration faults are reported before any search work.
func NewEngine(task ports.Task, successors ports.SuccessorGenerator, factory ports.OpenListFactory, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		task:       task,
		successors: successors,
		bound:      domain.DefaultBound,
		costType:   domain.CostNormal,
		pruning:    pruning.Null{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:        context.Background(),
		status:     domain.StatusInProgress,
	}
	for _, opt := range opts {
		opt(e)
	}

	if task == nil || successors == nil || factory == nil {
		return nil, fmt.Errorf("%w: task, successor generator and open list factory are required", domain.ErrInvalidConfig)
	}
	if e.lazyEval != nil && !e.lazyEval.DoesCacheEstimates() {
		return nil, fmt.Errorf("%w: %s", domain.ErrLazyEvaluatorNotCaching, e.lazyEval.Description())
	}
	if e.bound < 0 {
		return nil, fmt.Errorf("%w: negative bound %d", domain.ErrInvalidConfig, e.bound)
	}
	if e.maxTime < 0 || e.maxExpansions < 0 {
		return nil, fmt.Errorf("%w: negative search limit", domain.ErrInvalidConfig)
	}
	ct, err := domain.ParseCostType(string(e.costType))
	if err != nil {
		return nil, err
	}
	e.costType = ct

	reg, err := registry.NewRegistry(task)
	if err != nil {
		return nil, fmt.Errorf("failed to create state registry: %w", err)
	}
	e.registry = reg
	e.space = NewSearchSpace(reg, e.logger)
	e.stats = observability.NewStatistics(e.logger)
	e.openList = factory.CreateStateOpenList()
	e.progress = newProgress(e.logger)
	e.progress.onImprove = e.emitProgress
	return e, nil
}

// Initialize evaluates the initial state and opens it unless it is a dead end.
// Calling it again is a no-op.
func (e *Engine) Initialize() error {
	if e.initialized {
		return nil
	}
	e.initialized = true
	e.logger.Info("conducting best first search",
		"reopen_closed", e.reopenClosed,
		"bound", e.bound,
		"cost_type", e.costType,
	)

	set := evaluation.NewSet()
	e.openList.CollectPathDependentEvaluators(set)
	for _, ev := range e.preferredEvals {
		ev.CollectPathDependentEvaluators(set)
	}
	if e.fEval != nil {
		e.fEval.CollectPathDependentEvaluators(set)
	}
	if e.lazyEval != nil {
		e.lazyEval.CollectPathDependentEvaluators(set)
	}
	e.pathDependent = set.Items()

	initial := e.registry.InitialState()
	for _, ev := range e.pathDependent {
		ev.NotifyInitialState(initial)
	}

	// The initial state counts as reached by a preferred operator.
	ctx := evaluation.NewContext(initial, 0, true, e.stats)
	e.stats.IncEvaluatedStates()

	if e.openList.IsDeadEnd(ctx) {
		e.logger.Info("initial state is a dead end")
	} else {
		if e.progress.check(ctx) {
			e.stats.PrintCheckpointLine(0)
		}
		e.reportFValue(ctx)
		if err := e.space.Node(initial).OpenInitial(); err != nil {
			return err
		}
		e.openList.Insert(ctx, initial.ID)
	}

	ctx.ForEachResult(func(ev evaluation.Evaluator, r evaluation.Result) {
		if r.IsInfinite() {
			e.logger.Info("initial heuristic value", "evaluator", ev.Description(), "value", "infinity")
			return
		}
		e.logger.Info("initial heuristic value", "evaluator", ev.Description(), "value", r.Value)
	})

	e.pruning.Initialize(e.task)
	return nil
}

// Step expands at most one node. Once the run is over it keeps returning the
// final status.
func (e *Engine) Step() (domain.SearchStatus, error) {
	if e.status.Terminal() {
		return e.status, nil
	}
	if !e.initialized {
		if err := e.Initialize(); err != nil {
			return e.fail(err)
		}
	}

	node, ok, err := e.nextNode()
	if err != nil {
		return e.fail(err)
	}
	if !ok {
		e.logger.Info("completely explored state space, no solution")
		e.status = domain.StatusFailed
		return e.status, nil
	}

	status, err := e.expand(node)
	if err != nil {
		return e.fail(err)
	}
	e.status = status
	return status, nil
}

func (e *Engine) fail(err error) (domain.SearchStatus, error) {
	e.status = domain.StatusFailed
	return e.status, err
}

// nextNode pops entries until one can be expanded and closes it.
func (e *Engine) nextNode() (SearchNode, bool, error) {
	for !e.openList.Empty() {
		id := e.openList.RemoveMin()
		node := e.space.NodeByID(id)
		if node.IsClosed() {
			continue
		}

		ctx := evaluation.NewContext(node.State(), node.G(), false, e.stats)

		if e.lazyEval != nil {
			// Re-evaluation may have turned a node inserted earlier into a dead end.
			if node.IsDeadEnd() {
				continue
			}
			if e.lazyEval.IsEstimateCached(node.State()) {
				oldH := e.lazyEval.CachedEstimate(node.State())
				newH := ctx.ValueOrInfinity(e.lazyEval)
				if e.openList.IsDeadEnd(ctx) {
					if err := node.MarkAsDeadEnd(); err != nil {
						return SearchNode{}, false, err
					}
					e.stats.IncDeadEnds()
					continue
				}
				if newH != oldH {
					e.openList.Insert(ctx, id)
					continue
				}
			}
		}

		if err := node.Close(); err != nil {
			return SearchNode{}, false, err
		}
		e.reportFValue(ctx)
		return node, true, nil
	}
	return SearchNode{}, false, nil
}

func (e *Engine) expand(node SearchNode) (domain.SearchStatus, error) {
	// A popped goal ends the run and is not counted as an expansion.
	state := node.State()
	if e.task.IsGoal(state.Values) {
		plan, err := e.space.TracePath(state)
		if err != nil {
			return domain.StatusFailed, err
		}
		e.setPlan(state, plan)
		return domain.StatusSolved, nil
	}

	e.stats.IncExpanded()
	e.emitExpand(node)

	if err := e.generateSuccessors(node); err != nil {
		return domain.StatusFailed, err
	}
	return domain.StatusInProgress, nil
}

func (e *Engine) generateSuccessors(node SearchNode) error {
	state := node.State()

	e.applicable = e.successors.ApplicableOperators(state, e.applicable[:0])
	e.stats.IncGeneratedOps(len(e.applicable))
	ops := e.pruning.PruneOperators(state, e.applicable)

	preferred := e.collectPreferred(node)

	for _, op := range ops {
		realCost := e.task.OperatorCost(op)
		if node.RealG()+realCost >= e.bound {
			continue
		}

		succ := e.registry.SuccessorState(state, op)
		e.stats.IncGenerated()
		succNode := e.space.Node(succ)

		for _, ev := range e.pathDependent {
			ev.NotifyStateTransition(state, op, succ)
		}

		if succNode.IsDeadEnd() {
			continue
		}

		_, isPreferred := preferred[op]
		cost := domain.AdjustCost(realCost, e.costType, e.task.IsUnitCost())

		switch {
		case succNode.IsNew():
			ctx := evaluation.NewContext(succ, node.G()+cost, isPreferred, e.stats)
			e.stats.IncEvaluatedStates()

			if e.openList.IsDeadEnd(ctx) {
				if err := succNode.MarkAsDeadEnd(); err != nil {
					return err
				}
				e.stats.IncDeadEnds()
				continue
			}
			if err := succNode.OpenNewNode(node, op, realCost, cost); err != nil {
				return err
			}
			e.openList.Insert(ctx, succ.ID)
			if e.progress.check(ctx) {
				e.stats.PrintCheckpointLine(succNode.G())
				e.openList.BoostPreferred()
			}

		case succNode.G() > node.G()+cost:
			switch {
			case succNode.IsOpen():
				if err := succNode.UpdateOpenNodeParent(node, op, realCost, cost); err != nil {
					return err
				}
				e.openList.Insert(evaluation.NewContext(succ, succNode.G(), isPreferred, e.stats), succ.ID)
			case succNode.IsClosed() && e.reopenClosed:
				e.stats.IncReopened()
				if err := succNode.ReopenClosedNode(node, op, realCost, cost); err != nil {
					return err
				}
				e.openList.Insert(evaluation.NewContext(succ, succNode.G(), isPreferred, e.stats), succ.ID)
			default:
				// Only the parent pointer moves; the node is not expanded again.
				if err := succNode.UpdateClosedNodeParent(node, op, realCost, cost); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Engine) collectPreferred(node SearchNode) map[domain.OperatorID]struct{} {
	if len(e.preferredEvals) == 0 {
		return nil
	}
	ctx := evaluation.NewContext(node.State(), node.G(), false, e.stats, evaluation.WithPreferredOperators())
	preferred := make(map[domain.OperatorID]struct{})
	for _, ev := range e.preferredEvals {
		if ctx.IsInfinite(ev) {
			continue
		}
		for _, op := range ctx.PreferredOperators(ev) {
			preferred[op] = struct{}{}
		}
	}
	return preferred
}

func (e *Engine) reportFValue(ctx *evaluation.Context) {
	if e.fEval == nil {
		return
	}
	f, ok := ctx.Value(e.fEval)
	if !ok {
		return
	}
	if e.stats.ReportFValueProgress(f) && e.hooks.OnFJump != nil {
		e.hooks.OnFJump(e.ctx, &domain.FJumpEvent{
			EventBase: e.event(domain.EventFJump, ctx.State().ID),
			F:         f,
		})
	}
}

func (e *Engine) setPlan(goal domain.State, plan domain.Plan) {
	cost := 0
	for _, op := range plan {
		cost += e.task.OperatorCost(op)
	}
	e.plan = plan
	e.planCost = cost
	e.logger.Info("solution found", "cost", cost, "length", len(plan))
	if e.hooks.OnSolved != nil {
		e.hooks.OnSolved(e.ctx, &domain.SolvedEvent{
			EventBase: e.event(domain.EventSolved, goal.ID),
			Cost:      cost,
			Length:    len(plan),
		})
	}
}

// Search runs the engine until a terminal status. Limits and cancellation
// are checked between steps; a single expansion is never interrupted.
func (e *Engine) Search(ctx context.Context) (domain.SearchStatus, error) {
	ctx, span := observability.Tracer().Start(ctx, "thicket.search")
	defer span.End()
	e.ctx = ctx

	start := time.Now()
	status := e.status
	for status == domain.StatusInProgress {
		if ctx.Err() != nil {
			e.logger.Info("search interrupted", "err", ctx.Err())
			status = domain.StatusInterrupted
			break
		}

		var err error
		status, err = e.Step()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return status, err
		}
		if status != domain.StatusInProgress {
			break
		}
		if e.maxTime > 0 && time.Since(start) >= e.maxTime {
			e.logger.Info("time limit reached, abort search", "max_time", e.maxTime)
			status = domain.StatusTimeout
		} else if e.maxExpansions > 0 && e.stats.Expanded >= e.maxExpansions {
			e.logger.Info("expansion limit reached, abort search", "max_expansions", e.maxExpansions)
			status = domain.StatusLimitReached
		}
	}
	e.status = status

	e.logger.Info("search finished", "status", status, "elapsed", time.Since(start))
	e.stats.Log()
	e.space.Log()
	if l, ok := e.pruning.(interface{ Log() }); ok {
		l.Log()
	}

	span.SetAttributes(
		attribute.String("thicket.task", e.task.Name()),
		attribute.String("thicket.status", string(status)),
		attribute.Int64("thicket.expanded", e.stats.Expanded),
		attribute.Int64("thicket.generated", e.stats.Generated),
	)
	return status, nil
}

// Plan returns the plan found by a solved run.
func (e *Engine) Plan() (domain.Plan, error) {
	if e.status != domain.StatusSolved {
		return nil, domain.ErrNoSolution
	}
	return e.plan, nil
}

// PlanCost is the real cost of the plan, or -1 when there is none.
func (e *Engine) PlanCost() int {
	if e.status != domain.StatusSolved {
		return -1
	}
	return e.planCost
}

func (e *Engine) Status() domain.SearchStatus           { return e.status }
func (e *Engine) Statistics() *observability.Statistics { return e.stats }
func (e *Engine) Space() *SearchSpace                   { return e.space }
func (e *Engine) Registry() *registry.Registry          { return e.registry }

func (e *Engine) event(t domain.EventType, id domain.StateID) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, StateID: id}
}

func (e *Engine) emitExpand(node SearchNode) {
	if e.hooks.OnExpand == nil {
		return
	}
	e.hooks.OnExpand(e.ctx, &domain.ExpandEvent{
		EventBase: e.event(domain.EventExpand, node.ID()),
		G:         node.G(),
		Expanded:  int(e.stats.Expanded),
	})
}

func (e *Engine) emitProgress(ev evaluation.Evaluator, value int, boosting bool) {
	if e.hooks.OnProgress == nil {
		return
	}
	e.hooks.OnProgress(e.ctx, &domain.ProgressEvent{
		EventBase: e.event(domain.EventProgress, domain.NoState),
		Evaluator: ev.Description(),
		Value:     value,
		Boosted:   boosting,
	})
}
