package runtime_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/thicket/internal/runtime"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/dsl"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/evaluators"
	"github.com/aretw0/thicket/pkg/openlist"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/task"
)

func TestEngine_TwoStates(t *testing.T) {
	b := dsl.New("two").
		Var("at", "a", "b").
		Init("at", "a").
		Goal("at", "b")
	b.Op("move").Cost(1).Pre("at", "a").Set("at", "b")
	two, err := b.Build()
	require.NoError(t, err)

	eng := newEngine(t, two, openlist.SingleFactory{Eval: evaluators.NewConst(0)})
	status, err := eng.Search(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSolved, status)
	assert.Equal(t, int64(1), eng.Statistics().Expanded)

	plan, err := eng.Plan()
	require.NoError(t, err)
	assert.Equal(t, domain.Plan{0}, plan)
	assert.Equal(t, 1, eng.PlanCost())
}

func TestEngine_NoOperators(t *testing.T) {
	tk, err := dsl.New("stuck").
		Var("at", "a", "b").
		Init("at", "a").
		Goal("at", "b").
		Build()
	require.NoError(t, err)

	eng := newEngine(t, tk, openlist.SingleFactory{Eval: evaluators.NewConst(0)})
	status, err := eng.Search(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, status)
	assert.Equal(t, int64(1), eng.Statistics().Expanded)

	_, err = eng.Plan()
	assert.ErrorIs(t, err, domain.ErrNoSolution)
	assert.Equal(t, -1, eng.PlanCost())
}

func TestEngine_DiamondReopening(t *testing.T) {
	tests := []struct {
		name     string
		h        map[int]int
		reopened int64
	}{
		{
			// c looks bad, so d is first closed through b.
			name:     "expensive path first",
			h:        map[int]int{0: 0, 1: 0, 2: 10, 3: 0, 4: 20},
			reopened: 1,
		},
		{
			name:     "cheap path first",
			h:        map[int]int{0: 0, 1: 10, 2: 0, 3: 0, 4: 0},
			reopened: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := diamond(t)
			f := evaluators.NewSum(evaluators.NewG(), newTable(tt.h))
			eng := newEngine(t, tk, openlist.SingleFactory{Eval: f}, runtime.WithReopenClosed(true))

			status, err := eng.Search(context.Background())
			require.NoError(t, err)
			require.Equal(t, domain.StatusSolved, status)

			plan, err := eng.Plan()
			require.NoError(t, err)
			assert.Equal(t, domain.Plan{2, 3, 4}, plan)
			assert.Equal(t, 3, eng.PlanCost())
			assert.Equal(t, tt.reopened, eng.Statistics().Reopened)

			goal, ok := eng.Registry().Lookup([]int{4})
			require.True(t, ok)
			assert.Equal(t, eng.PlanCost(), eng.Space().NodeByID(goal).G())
		})
	}
}

func TestEngine_WithoutReopeningTracesCheaperParent(t *testing.T) {
	tk := diamond(t)
	f := evaluators.NewSum(evaluators.NewG(), newTable(map[int]int{0: 0, 1: 0, 2: 10, 3: 0, 4: 20}))
	eng := newEngine(t, tk, openlist.SingleFactory{Eval: f}, runtime.WithReopenClosed(false))

	status, err := eng.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)
	assert.Zero(t, eng.Statistics().Reopened)

	plan, err := eng.Plan()
	require.NoError(t, err)
	assert.Equal(t, domain.Plan{2, 3, 4}, plan)
	assert.True(t, replay(t, tk, plan))

	// d was rewired to c after g was closed through b, so g keeps the cost
	// of the older path while its parent chain is the cheaper one.
	goal, ok := eng.Registry().Lookup([]int{4})
	require.True(t, ok)
	storedG := eng.Space().NodeByID(goal).G()
	assert.Equal(t, 5, storedG)
	assert.Equal(t, 3, planCost(tk, plan))
	assert.GreaterOrEqual(t, storedG-planCost(tk, plan), 0)
}

// grid moves x and y from 0 to 3 with uneven costs. The jump is part of the
// only optimal plan (cost 11).
func grid(t *testing.T) *task.Task {
	t.Helper()
	b := dsl.New("grid").
		Var("x", "0", "1", "2", "3").
		Var("y", "0", "1", "2", "3").
		Init("x", "0").Init("y", "0").
		Goal("x", "3").Goal("y", "3")
	for i := 0; i < 3; i++ {
		from, to := fmt.Sprint(i), fmt.Sprint(i+1)
		b.Op("x"+from).Cost(1+i).Pre("x", from).Set("x", to)
		b.Op("y"+from).Cost(3-i).Pre("y", from).Set("y", to)
	}
	b.Op("jump").Cost(7).Pre("x", "0").Pre("y", "0").Set("x", "2").Set("y", "2")
	tk, err := b.Build()
	require.NoError(t, err)
	return tk
}

func TestEngine_AStarPlanIsValidAndOptimal(t *testing.T) {
	tk := grid(t)
	gen := task.NewSuccessorGenerator(tk)

	uniform, err := runtime.NewEngine(tk, gen, openlist.SingleFactory{Eval: evaluators.NewG()}, runtime.WithReopenClosed(true))
	require.NoError(t, err)
	status, err := uniform.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)

	h := evaluators.NewHMax(tk, domain.CostNormal)
	astar, err := runtime.NewEngine(tk, gen,
		openlist.TiebreakingFactory{Evals: []evaluation.Evaluator{evaluators.NewSum(evaluators.NewG(), h), h}},
		runtime.WithReopenClosed(true),
	)
	require.NoError(t, err)
	status, err = astar.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)

	plan, err := astar.Plan()
	require.NoError(t, err)
	assert.True(t, replay(t, tk, plan))
	assert.Equal(t, 11, astar.PlanCost())
	assert.Equal(t, planCost(tk, plan), astar.PlanCost())
	assert.Equal(t, uniform.PlanCost(), astar.PlanCost())
	assert.LessOrEqual(t, astar.Statistics().Expanded, uniform.Statistics().Expanded)
}

func TestEngine_GValuesNeverIncrease(t *testing.T) {
	tk := diamond(t)
	f := evaluators.NewSum(evaluators.NewG(), newTable(map[int]int{0: 0, 1: 0, 2: 10, 3: 0, 4: 20}))
	eng := newEngine(t, tk, openlist.SingleFactory{Eval: f}, runtime.WithReopenClosed(true))
	require.NoError(t, eng.Initialize())

	best := make(map[domain.StateID]int)
	for {
		status, err := eng.Step()
		require.NoError(t, err)
		for id := 0; id < eng.Registry().Size(); id++ {
			node := eng.Space().NodeByID(domain.StateID(id))
			if node.IsNew() {
				continue
			}
			if old, ok := best[node.ID()]; ok {
				assert.LessOrEqual(t, node.G(), old, "g of state %d increased", id)
			}
			best[node.ID()] = node.G()
		}
		if status != domain.StatusInProgress {
			break
		}
	}
	assert.Equal(t, domain.StatusSolved, eng.Status())
}

func TestEngine_Bound(t *testing.T) {
	tests := []struct {
		bound int
		want  domain.SearchStatus
	}{
		{bound: 3, want: domain.StatusFailed},
		{bound: 4, want: domain.StatusSolved},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("bound %d", tt.bound), func(t *testing.T) {
			eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: evaluators.NewG()}, runtime.WithBound(tt.bound))
			status, err := eng.Search(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestEngine_CostTypeOne(t *testing.T) {
	tk := diamond(t)
	eng := newEngine(t, tk, openlist.SingleFactory{Eval: evaluators.NewG()}, runtime.WithCostType(domain.CostOne))

	status, err := eng.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)

	// Both paths have three steps; b is generated first.
	plan, err := eng.Plan()
	require.NoError(t, err)
	assert.Equal(t, domain.Plan{0, 1, 4}, plan)
	assert.Equal(t, 5, eng.PlanCost())
}

func TestEngine_Limits(t *testing.T) {
	t.Run("expansions", func(t *testing.T) {
		eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: evaluators.NewG()}, runtime.WithMaxExpansions(1))
		status, err := eng.Search(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusLimitReached, status)
		assert.Equal(t, int64(1), eng.Statistics().Expanded)
	})

	t.Run("time", func(t *testing.T) {
		eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: evaluators.NewG()}, runtime.WithMaxTime(time.Nanosecond))
		status, err := eng.Search(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusTimeout, status)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: evaluators.NewG()})
		status, err := eng.Search(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInterrupted, status)
		assert.Zero(t, eng.Statistics().Expanded)
	})
}

func TestEngine_InitialDeadEnd(t *testing.T) {
	eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: newTable(map[int]int{})})
	status, err := eng.Search(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, status)
	assert.Zero(t, eng.Statistics().Expanded)
	assert.Equal(t, int64(1), eng.Statistics().EvaluatedStates)
}

func TestEngine_DeadEndSuccessorsAreNotOpened(t *testing.T) {
	// b is a dead end, so the search must go through c.
	h := newTable(map[int]int{0: 0, 2: 0, 3: 0, 4: 0})
	eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: h})
	status, err := eng.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)

	assert.Equal(t, int64(1), eng.Statistics().DeadEnds)
	b, ok := eng.Registry().Lookup([]int{1})
	require.True(t, ok)
	assert.True(t, eng.Space().NodeByID(b).IsDeadEnd())
}

// lazyTask: a -ax-> x -xg-> g, a -ay-> y -yx-> x.
// Values of "at": a=0 x=1 y=2 g=3. Operators: ax=0 ay=1 yx=2 xg=3.
func lazyTask(t *testing.T) *task.Task {
	t.Helper()
	b := dsl.New("lazy").
		Var("at", "a", "x", "y", "g").
		Init("at", "a").
		Goal("at", "g")
	b.Op("ax").Pre("at", "a").Set("at", "x")
	b.Op("ay").Pre("at", "a").Set("at", "y")
	b.Op("yx").Pre("at", "y").Set("at", "x")
	b.Op("xg").Pre("at", "x").Set("at", "g")
	tk, err := b.Build()
	require.NoError(t, err)
	return tk
}

func TestEngine_LazyEvaluatorRecheck(t *testing.T) {
	t.Run("dead end on recheck", func(t *testing.T) {
		h := newTable(map[int]int{0: 0, 1: 5, 2: 1, 3: 0})
		lazy := evaluators.NewCached(h, evaluators.WithDirtyOnTransition())
		eng := newEngine(t, lazyTask(t), openlist.SingleFactory{Eval: lazy}, runtime.WithLazyEvaluator(lazy))

		status, err := eng.Step() // expands a
		require.NoError(t, err)
		require.Equal(t, domain.StatusInProgress, status)

		delete(h.h, 1)
		status, err = eng.Step() // expands y, reaching x again
		require.NoError(t, err)
		require.Equal(t, domain.StatusInProgress, status)

		status, err = eng.Step() // pops x, now a dead end
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, status)
		assert.Equal(t, int64(1), eng.Statistics().DeadEnds)

		x, ok := eng.Registry().Lookup([]int{1})
		require.True(t, ok)
		assert.True(t, eng.Space().NodeByID(x).IsDeadEnd())
	})

	t.Run("changed value is reinserted", func(t *testing.T) {
		h := newTable(map[int]int{0: 0, 1: 5, 2: 1, 3: 0})
		lazy := evaluators.NewCached(h, evaluators.WithDirtyOnTransition())
		eng := newEngine(t, lazyTask(t), openlist.SingleFactory{Eval: lazy}, runtime.WithLazyEvaluator(lazy))

		_, err := eng.Step()
		require.NoError(t, err)
		h.h[1] = 3
		_, err = eng.Step()
		require.NoError(t, err)

		status, err := eng.Search(context.Background())
		require.NoError(t, err)
		require.Equal(t, domain.StatusSolved, status)

		plan, err := eng.Plan()
		require.NoError(t, err)
		assert.Equal(t, domain.Plan{0, 3}, plan)
		// Computed once when generated and once on the recheck; the
		// reinserted entry reuses the fresh cache.
		assert.Equal(t, 2, h.calls[1])
	})
}

func TestNewEngine_ConfigFaults(t *testing.T) {
	tk := diamond(t)
	gen := task.NewSuccessorGenerator(tk)
	factory := openlist.SingleFactory{Eval: evaluators.NewG()}

	tests := []struct {
		name    string
		factory ports.OpenListFactory
		opts    []runtime.EngineOption
		want    error
	}{
		{
			name:    "lazy evaluator without cache",
			factory: factory,
			opts:    []runtime.EngineOption{runtime.WithLazyEvaluator(evaluators.NewConst(0))},
			want:    domain.ErrLazyEvaluatorNotCaching,
		},
		{
			name:    "negative bound",
			factory: factory,
			opts:    []runtime.EngineOption{runtime.WithBound(-1)},
			want:    domain.ErrInvalidConfig,
		},
		{
			name:    "unknown cost type",
			factory: factory,
			opts:    []runtime.EngineOption{runtime.WithCostType("double")},
			want:    domain.ErrInvalidConfig,
		},
		{
			name:    "missing factory",
			factory: nil,
			want:    domain.ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runtime.NewEngine(tk, gen, tt.factory, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEngine_PreferredOperatorsWithAlternation(t *testing.T) {
	tk := grid(t)
	gen := task.NewSuccessorGenerator(tk)
	h := evaluators.NewHAdd(tk, domain.CostNormal)

	factory := openlist.AlternationFactory{
		Sublists: []ports.OpenListFactory{
			openlist.SingleFactory{Eval: h},
			openlist.SingleFactory{Eval: h, OnlyPreferred: true},
		},
		Boost: domain.DefaultBoost,
	}
	eng, err := runtime.NewEngine(tk, gen, factory, runtime.WithPreferredEvaluators(h))
	require.NoError(t, err)

	status, err := eng.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)

	plan, err := eng.Plan()
	require.NoError(t, err)
	assert.True(t, replay(t, tk, plan))
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var expanded []domain.StateID
	var solved *domain.SolvedEvent
	var progress []string

	hooks := domain.LifecycleHooks{
		OnExpand: func(_ context.Context, e *domain.ExpandEvent) {
			expanded = append(expanded, e.StateID)
		},
		OnProgress: func(_ context.Context, e *domain.ProgressEvent) {
			progress = append(progress, fmt.Sprintf("%s=%d", e.Evaluator, e.Value))
		},
		OnSolved: func(_ context.Context, e *domain.SolvedEvent) {
			solved = e
		},
	}

	h := newTable(map[int]int{0: 2, 1: 2, 2: 1, 3: 1, 4: 0})
	eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: h}, runtime.WithLifecycleHooks(hooks))
	status, err := eng.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)

	// a, then c (h=1) before b, then d.
	require.Len(t, expanded, 3)
	assert.Equal(t, domain.StateID(0), expanded[0])
	require.NotNil(t, solved)
	assert.Equal(t, 3, solved.Cost)
	assert.Equal(t, 3, solved.Length)
	assert.Equal(t, []string{"table=2", "table=1", "table=0"}, progress)
}

func TestEngine_StepAfterTerminal(t *testing.T) {
	eng := newEngine(t, diamond(t), openlist.SingleFactory{Eval: evaluators.NewG()})
	status, err := eng.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSolved, status)

	expanded := eng.Statistics().Expanded
	status, err = eng.Step()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSolved, status)
	assert.Equal(t, expanded, eng.Statistics().Expanded)
}
