package tests

import (
	"testing"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
)

// TaskContractTest is a reusable test suite that verifies if a task model complies with ports.Task.
func TaskContractTest(t *testing.T, task ports.Task) {
	t.Helper()

	t.Run("InitialValues_InDomain", func(t *testing.T) {
		init := task.InitialValues()
		if len(init) != task.NumVariables() {
			t.Fatalf("initial state has %d values, want %d", len(init), task.NumVariables())
		}
		for v, val := range init {
			if val < 0 || val >= task.DomainSize(v) {
				t.Errorf("variable %d: initial value %d outside domain of size %d", v, val, task.DomainSize(v))
			}
		}
	})

	t.Run("InitialValues_IsCopy", func(t *testing.T) {
		if task.NumVariables() == 0 {
			t.Skip("no variables")
		}
		a := task.InitialValues()
		a[0] = -42
		if task.InitialValues()[0] == -42 {
			t.Error("InitialValues must return a fresh slice")
		}
	})

	t.Run("Operators_NonNegativeCost", func(t *testing.T) {
		for op := 0; op < task.NumOperators(); op++ {
			if c := task.OperatorCost(domain.OperatorID(op)); c < 0 {
				t.Errorf("operator %d has negative cost %d", op, c)
			}
		}
	})

	t.Run("ApplyOperator_StaysInDomain", func(t *testing.T) {
		init := task.InitialValues()
		for op := 0; op < task.NumOperators(); op++ {
			id := domain.OperatorID(op)
			if !task.IsApplicable(id, init) {
				continue
			}
			succ := append([]int(nil), init...)
			task.ApplyOperator(id, init, succ)
			task.EvaluateAxioms(succ)
			for v, val := range succ {
				if val < 0 || val >= task.DomainSize(v) {
					t.Errorf("operator %s sets variable %d to %d outside its domain", task.OperatorName(id), v, val)
				}
			}
		}
	})

	t.Run("Goals_InDomain", func(t *testing.T) {
		for _, g := range task.Goals() {
			if g.Var < 0 || g.Var >= task.NumVariables() {
				t.Errorf("goal %s references unknown variable", g)
				continue
			}
			if g.Value < 0 || g.Value >= task.DomainSize(g.Var) {
				t.Errorf("goal %s outside domain", g)
			}
		}
	})
}
