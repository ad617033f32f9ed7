package domain

import "math"

// Infinity is the evaluator value that marks a dead end.
const Infinity = math.MaxInt32

// DefaultBound is the cost bound used when none is configured.
const DefaultBound = math.MaxInt32

// DefaultBoost is the priority bonus applied to preferred-only sublists.
const DefaultBoost = 1000

const (
	// NoState marks the absence of a parent state.
	NoState StateID = -1

	// NoOperator marks the absence of a creating operator.
	NoOperator OperatorID = -1
)
