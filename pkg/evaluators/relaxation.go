package evaluators

import (
	"container/heap"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/task"
)

// maxCostValue clamps h^add sums.
const maxCostValue = 100_000_000

const noOp = -1

type proposition struct {
	cost           int // -1 until reached
	reachedBy      int // unary operator index or noOp
	marked         bool
	isGoal         bool
	preconditionOf []int
}

type unaryOperator struct {
	preconditions []int
	effect        int
	baseCost      int
	operator      domain.OperatorID // NoOperator for axioms

	cost        int
	unsatisfied int
}

// relaxation is the delete-relaxed exploration shared by h^max and h^add.
type relaxation struct {
	evaluation.Base
	additive bool

	offsets []int
	props   []proposition
	ops     []unaryOperator
	goals   []int
	queue   propQueue
}

// NewHMax creates the max heuristic. It is admissible for tasks without axioms.
func NewHMax(t *task.Task, ct domain.CostType) evaluation.Evaluator {
	return newRelaxation(t, ct, false, "hmax")
}

// NewHAdd creates the additive heuristic, which also computes preferred operators.
func NewHAdd(t *task.Task, ct domain.CostType) evaluation.Evaluator {
	return newRelaxation(t, ct, true, "hadd")
}

func newRelaxation(t *task.Task, ct domain.CostType, additive bool, name string) *relaxation {
	r := &relaxation{Base: heuristicBase(name), additive: additive}

	r.offsets = make([]int, t.NumVariables())
	n := 0
	for v := range r.offsets {
		r.offsets[v] = n
		n += t.DomainSize(v)
	}
	r.props = make([]proposition, n)

	addUnary := func(pre []domain.Fact, eff domain.Fact, cost int, op domain.OperatorID) {
		u := unaryOperator{effect: r.prop(eff), baseCost: cost, operator: op}
		for _, f := range pre {
			u.preconditions = append(u.preconditions, r.prop(f))
		}
		r.ops = append(r.ops, u)
	}
	for i := 0; i < t.NumOperators(); i++ {
		id := domain.OperatorID(i)
		op := t.Operator(id)
		cost := domain.AdjustCost(op.Cost, ct, t.IsUnitCost())
		for _, eff := range op.Effects {
			pre := append(append([]domain.Fact(nil), op.Precondition...), eff.Conditions...)
			addUnary(dedupFacts(pre), eff.Fact, cost, id)
		}
	}
	for i := 0; i < t.NumAxioms(); i++ {
		ax := t.Axiom(i)
		addUnary(ax.Conditions, ax.Head, 0, domain.NoOperator)
	}
	for i, u := range r.ops {
		for _, p := range u.preconditions {
			r.props[p].preconditionOf = append(r.props[p].preconditionOf, i)
		}
	}
	for _, g := range t.Goals() {
		p := r.prop(g)
		r.props[p].isGoal = true
		r.goals = append(r.goals, p)
	}
	return r
}

func (r *relaxation) prop(f domain.Fact) int {
	return r.offsets[f.Var] + f.Value
}

func (r *relaxation) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	state := ctx.State()
	r.explore(state)

	total := 0
	for _, g := range r.goals {
		c := r.props[g].cost
		if c == -1 {
			return evaluation.DeadEnd()
		}
		if r.additive {
			total = clampAdd(total, c)
		} else if c > total {
			total = c
		}
	}
	res := evaluation.NewResult(total)
	if r.additive && ctx.CalculatePreferred() {
		for _, g := range r.goals {
			res.PreferredOperators = r.markPreferred(g, res.PreferredOperators)
		}
	}
	return res
}

func (r *relaxation) explore(state domain.State) {
	r.queue = r.queue[:0]
	for i := range r.props {
		r.props[i].cost = -1
		r.props[i].marked = false
		r.props[i].reachedBy = noOp
	}
	for i := range r.ops {
		u := &r.ops[i]
		u.unsatisfied = len(u.preconditions)
		u.cost = u.baseCost
		if u.unsatisfied == 0 {
			r.enqueue(u.effect, u.baseCost, i)
		}
	}
	for v, val := range state.Values {
		r.enqueue(r.offsets[v]+val, 0, noOp)
	}

	unsolved := len(r.goals)
	for r.queue.Len() > 0 {
		top := heap.Pop(&r.queue).(queued)
		p := &r.props[top.prop]
		if p.cost < top.dist {
			continue
		}
		if p.isGoal {
			unsolved--
			if unsolved == 0 {
				return
			}
		}
		for _, oi := range p.preconditionOf {
			u := &r.ops[oi]
			if r.additive {
				u.cost = clampAdd(u.cost, p.cost)
			} else if c := u.baseCost + p.cost; c > u.cost {
				u.cost = c
			}
			u.unsatisfied--
			if u.unsatisfied == 0 {
				r.enqueue(u.effect, u.cost, oi)
			}
		}
	}
}

func (r *relaxation) enqueue(prop, cost, op int) {
	p := &r.props[prop]
	if p.cost == -1 || p.cost > cost {
		p.cost = cost
		p.reachedBy = op
		heap.Push(&r.queue, queued{dist: cost, prop: prop})
	}
}

// markPreferred walks the best supporters back from goal and collects
// operators whose preconditions all hold in the evaluated state.
func (r *relaxation) markPreferred(goal int, out []domain.OperatorID) []domain.OperatorID {
	p := &r.props[goal]
	if p.marked {
		return out
	}
	p.marked = true
	if p.reachedBy == noOp {
		return out
	}
	u := &r.ops[p.reachedBy]
	preferred := true
	for _, pre := range u.preconditions {
		out = r.markPreferred(pre, out)
		if r.props[pre].reachedBy != noOp {
			preferred = false
		}
	}
	if preferred && u.operator != domain.NoOperator && !containsOp(out, u.operator) {
		out = append(out, u.operator)
	}
	return out
}

func containsOp(ops []domain.OperatorID, op domain.OperatorID) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func dedupFacts(facts []domain.Fact) []domain.Fact {
	out := facts[:0]
	seen := make(map[domain.Fact]bool, len(facts))
	for _, f := range facts {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func clampAdd(a, b int) int {
	if a+b > maxCostValue {
		return maxCostValue
	}
	return a + b
}

type queued struct {
	dist int
	prop int
}

type propQueue []queued

func (q propQueue) Len() int { return len(q) }
func (q propQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].prop < q[j].prop
}
func (q propQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *propQueue) Push(x any)   { *q = append(*q, x.(queued)) }
func (q *propQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
