package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/thicket/internal/runtime"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/dsl"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/task"
)

// table is a heuristic keyed by the value of variable 0. Missing values are
// dead ends.
type table struct {
	evaluation.Base
	h     map[int]int
	calls map[int]int
}

func newTable(h map[int]int) *table {
	return &table{
		Base:  evaluation.Base{Name: "table", Boosting: true, Reporting: true, Counting: true},
		h:     h,
		calls: make(map[int]int),
	}
}

func (t *table) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	v := ctx.State().Values[0]
	t.calls[v]++
	h, ok := t.h[v]
	if !ok {
		return evaluation.DeadEnd()
	}
	return evaluation.NewResult(h)
}

// diamond: a -ab(2)-> b -bd(2)-> d, a -ac(1)-> c -cd(1)-> d, d -dg(1)-> g.
// Values of "at": a=0 b=1 c=2 d=3 g=4. Operators: ab=0 bd=1 ac=2 cd=3 dg=4.
func diamond(t *testing.T) *task.Task {
	t.Helper()
	b := dsl.New("diamond").
		Var("at", "a", "b", "c", "d", "g").
		Init("at", "a").
		Goal("at", "g")
	b.Op("ab").Cost(2).Pre("at", "a").Set("at", "b")
	b.Op("bd").Cost(2).Pre("at", "b").Set("at", "d")
	b.Op("ac").Cost(1).Pre("at", "a").Set("at", "c")
	b.Op("cd").Cost(1).Pre("at", "c").Set("at", "d")
	b.Op("dg").Cost(1).Pre("at", "d").Set("at", "g")
	tk, err := b.Build()
	require.NoError(t, err)
	return tk
}

func newEngine(t *testing.T, tk *task.Task, factory ports.OpenListFactory, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	eng, err := runtime.NewEngine(tk, task.NewSuccessorGenerator(tk), factory, opts...)
	require.NoError(t, err)
	return eng
}

func planCost(tk *task.Task, plan domain.Plan) int {
	cost := 0
	for _, op := range plan {
		cost += tk.OperatorCost(op)
	}
	return cost
}

// replay applies plan from the initial state and reports whether the goal holds.
func replay(t *testing.T, tk *task.Task, plan domain.Plan) bool {
	t.Helper()
	values := tk.InitialValues()
	for _, op := range plan {
		require.True(t, tk.IsApplicable(op, values), "operator %s not applicable", tk.OperatorName(op))
		succ := append([]int(nil), values...)
		tk.ApplyOperator(op, values, succ)
		tk.EvaluateAxioms(succ)
		values = succ
	}
	return tk.IsGoal(values)
}
