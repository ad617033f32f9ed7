package evaluators

import (
	"fmt"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/task"
)

// G returns the g value of the context.
type G struct{ evaluation.Base }

// NewG creates a g evaluator.
func NewG() *G {
	return &G{evaluation.Base{Name: "g"}}
}

func (e *G) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	return evaluation.NewResult(ctx.G())
}

// Const returns a fixed value for every state.
type Const struct {
	evaluation.Base
	value int
}

// NewConst creates a constant evaluator.
func NewConst(value int) *Const {
	return &Const{Base: evaluation.Base{Name: fmt.Sprintf("const(%d)", value)}, value: value}
}

func (e *Const) ComputeResult(*evaluation.Context) evaluation.Result {
	return evaluation.NewResult(e.value)
}

// Pref returns 0 for contexts reached by a preferred operator and 1 otherwise.
type Pref struct{ evaluation.Base }

// NewPref creates a preferredness evaluator.
func NewPref() *Pref {
	return &Pref{evaluation.Base{Name: "pref"}}
}

func (e *Pref) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	if ctx.IsPreferred() {
		return evaluation.NewResult(0)
	}
	return evaluation.NewResult(1)
}

func heuristicBase(name string) evaluation.Base {
	return evaluation.Base{Name: name, Boosting: true, Reporting: true, Counting: true}
}

// Blind returns 0 for goal states and the cheapest adjusted operator cost otherwise.
type Blind struct {
	evaluation.Base
	task    *task.Task
	minCost int
}

// NewBlind creates the blind heuristic.
func NewBlind(t *task.Task, ct domain.CostType) *Blind {
	minCost := 0
	for op := 0; op < t.NumOperators(); op++ {
		c := domain.AdjustCost(t.OperatorCost(domain.OperatorID(op)), ct, t.IsUnitCost())
		if op == 0 || c < minCost {
			minCost = c
		}
	}
	return &Blind{Base: heuristicBase("blind"), task: t, minCost: minCost}
}

func (e *Blind) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	if e.task.IsGoal(ctx.State().Values) {
		return evaluation.NewResult(0)
	}
	return evaluation.NewResult(e.minCost)
}

// GoalCount counts unsatisfied goal facts. Its preferred operators are the
// applicable operators that achieve one of them.
type GoalCount struct {
	evaluation.Base
	task *task.Task
	gen  *task.SuccessorGenerator
	ops  []domain.OperatorID
}

// NewGoalCount creates the goal-count heuristic.
func NewGoalCount(t *task.Task, gen *task.SuccessorGenerator) *GoalCount {
	return &GoalCount{Base: heuristicBase("goalcount"), task: t, gen: gen}
}

func (e *GoalCount) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	state := ctx.State()
	unsat := 0
	for _, g := range e.task.Goals() {
		if !state.Holds(g) {
			unsat++
		}
	}
	res := evaluation.NewResult(unsat)
	if unsat == 0 || !ctx.CalculatePreferred() {
		return res
	}
	e.ops = e.gen.ApplicableOperators(state, e.ops[:0])
	for _, op := range e.ops {
		if e.achievesOpenGoal(op, state) {
			res.PreferredOperators = append(res.PreferredOperators, op)
		}
	}
	return res
}

func (e *GoalCount) achievesOpenGoal(op domain.OperatorID, state domain.State) bool {
	for _, eff := range e.task.Operator(op).Effects {
		for _, g := range e.task.Goals() {
			if eff.Fact == g && !state.Holds(g) {
				return true
			}
		}
	}
	return false
}
