package thicket_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/adapters/memory"
	"github.com/aretw0/thicket/pkg/config"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/dsl"
	"github.com/aretw0/thicket/pkg/observability"
	"github.com/aretw0/thicket/pkg/task"
)

// courier: one robot, one parcel, two rooms. The only optimal plan is
// pick-a, move-a-b, drop-b.
func courier(t *testing.T, withDrop bool) *task.Task {
	t.Helper()
	b := dsl.New("courier").
		Var("robot", "a", "b").
		Var("parcel", "a", "b", "held").
		Init("robot", "a").
		Init("parcel", "a").
		Goal("parcel", "b")
	b.Op("move-a-b").Pre("robot", "a").Set("robot", "b")
	b.Op("move-b-a").Pre("robot", "b").Set("robot", "a")
	b.Op("pick-a").Pre("robot", "a").Pre("parcel", "a").Set("parcel", "held")
	b.Op("pick-b").Pre("robot", "b").Pre("parcel", "b").Set("parcel", "held")
	b.Op("drop-a").Pre("robot", "a").Pre("parcel", "held").Set("parcel", "a")
	if withDrop {
		b.Op("drop-b").Pre("robot", "b").Pre("parcel", "held").Set("parcel", "b")
	}
	tk, err := b.Build()
	require.NoError(t, err)
	return tk
}

func TestPlanner_SolveOptimal(t *testing.T) {
	want := []domain.PlanStep{
		{Operator: 2, Name: "pick-a", Cost: 1},
		{Operator: 0, Name: "move-a-b", Cost: 1},
		{Operator: 5, Name: "drop-b", Cost: 1},
	}

	tests := []struct {
		name     string
		strategy string
		heur     string
	}{
		{"astar hmax", config.StrategyAStar, config.HeuristicHMax},
		{"astar blind", config.StrategyAStar, config.HeuristicBlind},
		{"uniform cost", config.StrategyUniform, config.HeuristicZero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Strategy = tt.strategy
			cfg.Heuristic = tt.heur

			p, err := thicket.New(courier(t, true), thicket.WithConfig(cfg))
			require.NoError(t, err)
			res, err := p.Solve(context.Background())
			require.NoError(t, err)

			require.True(t, res.Solved())
			assert.Equal(t, 3, res.Cost)
			assert.NotEmpty(t, res.RunID)
			if diff := cmp.Diff(want, res.Steps); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanner_GreedyWithPreferred(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = config.StrategyGBFS
	cfg.Heuristic = config.HeuristicHAdd
	cfg.Preferred = true

	p, err := thicket.New(courier(t, true), thicket.WithConfig(cfg))
	require.NoError(t, err)
	res, err := p.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, res.Solved())
	assert.GreaterOrEqual(t, res.Cost, 3)
	assert.Len(t, res.Plan, len(res.Steps))
}

func TestPlanner_Unsolvable(t *testing.T) {
	p, err := thicket.New(courier(t, false))
	require.NoError(t, err)
	res, err := p.Solve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, res.Status)
	assert.Equal(t, -1, res.Cost)
	assert.Empty(t, res.Steps)
	assert.ErrorIs(t, res.WritePlan(&bytes.Buffer{}), domain.ErrNoSolution)
}

func TestPlanner_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := thicket.New(courier(t, true))
	require.NoError(t, err)
	res, err := p.Solve(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterrupted, res.Status)
}

func TestPlanner_ExpansionLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Heuristic = config.HeuristicBlind
	cfg.MaxExpansions = 1

	p, err := thicket.New(courier(t, true), thicket.WithConfig(cfg))
	require.NoError(t, err)
	res, err := p.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLimitReached, res.Status)
	assert.EqualValues(t, 1, res.Statistics.Expanded)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := thicket.New(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	cfg := config.Default()
	cfg.Strategy = config.StrategyGBFS
	cfg.Lazy = true
	_, err = thicket.New(courier(t, true), thicket.WithConfig(cfg))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	cfg = config.Default()
	cfg.Weight = 0
	_, err = thicket.New(courier(t, true), thicket.WithConfig(cfg))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestPlanner_HooksSeeRunID(t *testing.T) {
	var solved *domain.SolvedEvent
	var solvedRun string
	expansions := 0
	hooks := domain.LifecycleHooks{
		OnExpand: func(context.Context, *domain.ExpandEvent) { expansions++ },
		OnSolved: func(ctx context.Context, ev *domain.SolvedEvent) {
			solved = ev
			solvedRun, _ = thicket.RunIDFromContext(ctx)
		},
	}

	p, err := thicket.New(courier(t, true), thicket.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	res, err := p.Solve(context.Background())
	require.NoError(t, err)

	require.NotNil(t, solved)
	assert.Equal(t, 3, solved.Cost)
	assert.Equal(t, 3, solved.Length)
	assert.Equal(t, res.RunID, solvedRun)
	assert.EqualValues(t, expansions, res.Statistics.Expanded)

	_, ok := thicket.RunIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestResult_WritePlanAndSave(t *testing.T) {
	p, err := thicket.New(courier(t, true))
	require.NoError(t, err)
	res, err := p.Solve(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.WritePlan(&buf))
	assert.Equal(t, "(pick-a)\n(move-a-b)\n(drop-b)\n; cost = 3\n", buf.String())

	store := memory.NewStore()
	require.NoError(t, res.Save(context.Background(), store))
	rec, err := store.Load(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSolved, rec.Status)
	assert.Equal(t, 3, rec.Length())
	assert.Equal(t, res.Statistics.Expanded, rec.Statistics["expanded"])
}

func TestPlanner_Collector(t *testing.T) {
	c := observability.NewCollector("thicket_test")
	p, err := thicket.New(courier(t, true), thicket.WithCollector(c))
	require.NoError(t, err)
	_, err = p.Solve(context.Background())
	require.NoError(t, err)

	expected := `
# HELP thicket_test_search_runs_total Number of finished search runs by status
# TYPE thicket_test_search_runs_total counter
thicket_test_search_runs_total{status="solved"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "thicket_test_search_runs_total"))
}
