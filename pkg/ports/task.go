package ports

import "github.com/aretw0/thicket/pkg/domain"

// Task is a read-only finite-domain planning task.
type Task interface {
	Name() string

	NumVariables() int
	DomainSize(v int) int
	InitialValues() []int

	NumOperators() int
	OperatorName(op domain.OperatorID) string
	OperatorCost(op domain.OperatorID) int
	// IsUnitCost reports whether every operator costs exactly 1.
	IsUnitCost() bool
	IsApplicable(op domain.OperatorID, values []int) bool
	// ApplyOperator writes the effects of op, evaluated on parent, into succ.
	// succ must start as a copy of parent.
	ApplyOperator(op domain.OperatorID, parent []int, succ []int)
	// EvaluateAxioms recomputes derived variables in place.
	EvaluateAxioms(values []int)

	Goals() []domain.Fact
	IsGoal(values []int) bool
}

// SuccessorGenerator enumerates the operators applicable in a state.
type SuccessorGenerator interface {
	// ApplicableOperators appends applicable operators to out, in a
	// reproducible order, and returns the extended slice.
	ApplicableOperators(state domain.State, out []domain.OperatorID) []domain.OperatorID
}
