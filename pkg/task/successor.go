package task

import (
	"slices"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
)

// SuccessorGenerator finds applicable operators. Operators are bucketed by
// their first precondition fact so a state only checks plausible candidates.
type SuccessorGenerator struct {
	task *Task
	// byFact[v][val] lists operators whose first precondition is v=val.
	byFact [][][]domain.OperatorID
	always []domain.OperatorID
}

var _ ports.SuccessorGenerator = (*SuccessorGenerator)(nil)

// NewSuccessorGenerator indexes the operators of t.
func NewSuccessorGenerator(t *Task) *SuccessorGenerator {
	g := &SuccessorGenerator{
		task:   t,
		byFact: make([][][]domain.OperatorID, t.NumVariables()),
	}
	for v := range g.byFact {
		g.byFact[v] = make([][]domain.OperatorID, t.DomainSize(v))
	}
	for i, op := range t.operators {
		id := domain.OperatorID(i)
		if len(op.Precondition) == 0 {
			g.always = append(g.always, id)
			continue
		}
		f := op.Precondition[0]
		g.byFact[f.Var][f.Value] = append(g.byFact[f.Var][f.Value], id)
	}
	return g
}

// ApplicableOperators appends the applicable operators in ascending ID order.
func (g *SuccessorGenerator) ApplicableOperators(state domain.State, out []domain.OperatorID) []domain.OperatorID {
	start := len(out)
	out = append(out, g.always...)
	for v, val := range state.Values {
		for _, id := range g.byFact[v][val] {
			if g.task.IsApplicable(id, state.Values) {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out[start:])
	return out
}
