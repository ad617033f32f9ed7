package evaluation

import (
	"github.com/aretw0/thicket/pkg/domain"
)

// Evaluator estimates the quality of a state.
type Evaluator interface {
	// ComputeResult evaluates the context state. Implementations may call
	// ctx.Result on sub-evaluators.
	ComputeResult(ctx *Context) Result

	// DoesCacheEstimates reports whether per-state estimates are retained.
	DoesCacheEstimates() bool
	// IsEstimateCached reports whether a valid estimate exists for state.
	IsEstimateCached(state domain.State) bool
	// CachedEstimate returns the stored estimate. Only valid when IsEstimateCached.
	CachedEstimate(state domain.State) int

	// NotifyInitialState and NotifyStateTransition feed path-dependent evaluators.
	NotifyInitialState(state domain.State)
	NotifyStateTransition(parent domain.State, op domain.OperatorID, state domain.State)
	// CollectPathDependentEvaluators adds every path-dependent evaluator
	// reachable from this one to set.
	CollectPathDependentEvaluators(set *Set)

	// DeadEndsAreReliable reports whether an infinite value proves a dead end.
	DeadEndsAreReliable() bool

	UsedForBoosting() bool
	UsedForReportingMinima() bool
	UsedForCountingEvaluations() bool

	Description() string
}

// Base provides the defaults of a stateless, path-independent evaluator.
// Embed it and implement ComputeResult.
type Base struct {
	Name      string
	Boosting  bool
	Reporting bool
	Counting  bool
}

func (b *Base) DoesCacheEstimates() bool                                            { return false }
func (b *Base) IsEstimateCached(domain.State) bool                                  { return false }
func (b *Base) CachedEstimate(domain.State) int                                     { panic("evaluation: no cached estimates") }
func (b *Base) NotifyInitialState(domain.State)                                     {}
func (b *Base) NotifyStateTransition(domain.State, domain.OperatorID, domain.State) {}
func (b *Base) CollectPathDependentEvaluators(*Set)                                 {}
func (b *Base) DeadEndsAreReliable() bool                                           { return true }
func (b *Base) UsedForBoosting() bool                                               { return b.Boosting }
func (b *Base) UsedForReportingMinima() bool                                        { return b.Reporting }
func (b *Base) UsedForCountingEvaluations() bool                                    { return b.Counting }
func (b *Base) Description() string                                                 { return b.Name }

// Set is an insertion-ordered set of evaluators.
type Set struct {
	items []Evaluator
	seen  map[Evaluator]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{seen: make(map[Evaluator]struct{})}
}

// Add inserts e. It returns false when e was already present.
func (s *Set) Add(e Evaluator) bool {
	if _, ok := s.seen[e]; ok {
		return false
	}
	s.seen[e] = struct{}{}
	s.items = append(s.items, e)
	return true
}

// Contains reports membership.
func (s *Set) Contains(e Evaluator) bool {
	_, ok := s.seen[e]
	return ok
}

// Items returns the evaluators in insertion order.
func (s *Set) Items() []Evaluator {
	return s.items
}

// Len returns the set size.
func (s *Set) Len() int {
	return len(s.items)
}
