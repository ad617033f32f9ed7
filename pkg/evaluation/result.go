package evaluation

import "github.com/aretw0/thicket/pkg/domain"

// Result is the outcome of one evaluator invocation.
type Result struct {
	Value              int
	PreferredOperators []domain.OperatorID
	// CountEvaluation is false when the value came from a cache.
	CountEvaluation bool

	evaluated bool
}

// NewResult builds a counted result.
func NewResult(value int, preferred ...domain.OperatorID) Result {
	return Result{Value: value, PreferredOperators: preferred, CountEvaluation: true}
}

// DeadEnd builds a counted infinite result.
func DeadEnd() Result {
	return Result{Value: domain.Infinity, CountEvaluation: true}
}

// IsInfinite reports a dead-end estimate.
func (r Result) IsInfinite() bool {
	return r.Value == domain.Infinity
}
