package domain

import "errors"

// ErrInvalidConfig is returned when the search is configured inconsistently.
var ErrInvalidConfig = errors.New("invalid search configuration")

// ErrLazyEvaluatorNotCaching is returned when the lazy evaluator does not cache estimates.
var ErrLazyEvaluatorNotCaching = errors.New("lazy evaluator must cache its estimates")

// ErrInvalidTransition is returned when a search node is moved through a forbidden status change.
var ErrInvalidTransition = errors.New("invalid search node transition")

// ErrStateOutOfRange signals a StateID that was never issued by the registry.
var ErrStateOutOfRange = errors.New("state id out of range")

// ErrNoSolution is returned when a plan is requested from a run that did not solve.
var ErrNoSolution = errors.New("no solution found")

// ErrPlanNotFound is returned when a plan ID cannot be found in the store.
var ErrPlanNotFound = errors.New("plan not found")

// ErrInvalidTask is returned when a task definition fails validation.
var ErrInvalidTask = errors.New("invalid task")
