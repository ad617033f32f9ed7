package task

import (
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
)

// Variable is a compiled finite-domain variable.
type Variable struct {
	Name    string
	Values  []string
	Derived bool
	Layer   int
	Default int
}

// Effect assigns Fact when every condition holds in the parent state.
type Effect struct {
	Conditions []domain.Fact
	Fact       domain.Fact
}

// Operator is a compiled operator.
type Operator struct {
	Name         string
	Cost         int
	Precondition []domain.Fact
	Effects      []Effect
}

// Axiom derives Head when every condition holds.
type Axiom struct {
	Layer      int
	Conditions []domain.Fact
	Head       domain.Fact
}

// Task is a compiled, immutable planning task.
type Task struct {
	name      string
	variables []Variable
	init      []int
	goal      []domain.Fact
	operators []Operator
	axioms    []Axiom
	layers    [][]int // axiom indices grouped by ascending layer
	derived   []int
	unitCost  bool
}

var _ ports.Task = (*Task)(nil)

func (t *Task) Name() string            { return t.name }
func (t *Task) NumVariables() int       { return len(t.variables) }
func (t *Task) DomainSize(v int) int    { return len(t.variables[v].Values) }
func (t *Task) Variable(v int) Variable { return t.variables[v] }
func (t *Task) NumOperators() int       { return len(t.operators) }
func (t *Task) IsUnitCost() bool        { return t.unitCost }
func (t *Task) Goals() []domain.Fact    { return t.goal }
func (t *Task) NumAxioms() int          { return len(t.axioms) }

// Axiom returns the compiled axiom i.
func (t *Task) Axiom(i int) Axiom {
	return t.axioms[i]
}

// Operator returns the compiled operator.
func (t *Task) Operator(op domain.OperatorID) Operator {
	return t.operators[op]
}

func (t *Task) OperatorName(op domain.OperatorID) string { return t.operators[op].Name }
func (t *Task) OperatorCost(op domain.OperatorID) int    { return t.operators[op].Cost }

// InitialValues returns a fresh copy of the initial assignment with axioms applied.
func (t *Task) InitialValues() []int {
	values := make([]int, len(t.init))
	copy(values, t.init)
	return values
}

// IsApplicable checks the precondition of op.
func (t *Task) IsApplicable(op domain.OperatorID, values []int) bool {
	return holdsAll(t.operators[op].Precondition, values)
}

// ApplyOperator writes the effects of op into succ. Effect conditions are
// evaluated on parent so effects do not see each other.
func (t *Task) ApplyOperator(op domain.OperatorID, parent []int, succ []int) {
	for _, eff := range t.operators[op].Effects {
		if holdsAll(eff.Conditions, parent) {
			succ[eff.Fact.Var] = eff.Fact.Value
		}
	}
}

// EvaluateAxioms resets derived variables and runs each axiom layer to a fixpoint.
func (t *Task) EvaluateAxioms(values []int) {
	if len(t.axioms) == 0 {
		return
	}
	for _, v := range t.derived {
		values[v] = t.variables[v].Default
	}
	for _, layer := range t.layers {
		for changed := true; changed; {
			changed = false
			for _, ai := range layer {
				ax := &t.axioms[ai]
				if values[ax.Head.Var] == ax.Head.Value {
					continue
				}
				if holdsAll(ax.Conditions, values) {
					values[ax.Head.Var] = ax.Head.Value
					changed = true
				}
			}
		}
	}
}

// IsGoal checks the goal facts.
func (t *Task) IsGoal(values []int) bool {
	return holdsAll(t.goal, values)
}

// FactName renders a fact as "variable=value".
func (t *Task) FactName(f domain.Fact) string {
	v := t.variables[f.Var]
	return v.Name + "=" + v.Values[f.Value]
}

func holdsAll(facts []domain.Fact, values []int) bool {
	for _, f := range facts {
		if values[f.Var] != f.Value {
			return false
		}
	}
	return true
}
