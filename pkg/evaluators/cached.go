package evaluators

import (
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
)

type cacheEntry struct {
	value int
	dirty bool
}

// Cached stores the estimate of an inner evaluator per state. Cached values
// are reused unless marked dirty or preferred operators are requested.
type Cached struct {
	inner   evaluation.Evaluator
	entries map[domain.StateID]*cacheEntry

	dirtyOnTransition bool
}

var _ evaluation.Evaluator = (*Cached)(nil)

// CachedOption configures a Cached evaluator.
type CachedOption func(*Cached)

// WithDirtyOnTransition marks the cached value of every newly reached state
// dirty, turning the wrapper into a path-dependent evaluator.
func WithDirtyOnTransition() CachedOption {
	return func(c *Cached) {
		c.dirtyOnTransition = true
	}
}

// NewCached wraps inner.
func NewCached(inner evaluation.Evaluator, opts ...CachedOption) *Cached {
	c := &Cached{inner: inner, entries: make(map[domain.StateID]*cacheEntry)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cached) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	id := ctx.State().ID
	if entry, ok := c.entries[id]; ok && !entry.dirty && !ctx.CalculatePreferred() {
		return evaluation.Result{Value: entry.value}
	}
	res := c.inner.ComputeResult(ctx)
	res.CountEvaluation = true
	c.entries[id] = &cacheEntry{value: res.Value}
	return res
}

// MarkDirty forces the next evaluation of state id to recompute.
func (c *Cached) MarkDirty(id domain.StateID) {
	if entry, ok := c.entries[id]; ok {
		entry.dirty = true
	}
}

func (c *Cached) DoesCacheEstimates() bool { return true }

// IsEstimateCached reports whether any value, dirty or not, is stored.
func (c *Cached) IsEstimateCached(state domain.State) bool {
	_, ok := c.entries[state.ID]
	return ok
}

func (c *Cached) CachedEstimate(state domain.State) int {
	return c.entries[state.ID].value
}

func (c *Cached) NotifyInitialState(state domain.State) {
	c.inner.NotifyInitialState(state)
}

func (c *Cached) NotifyStateTransition(parent domain.State, op domain.OperatorID, state domain.State) {
	c.inner.NotifyStateTransition(parent, op, state)
	if c.dirtyOnTransition {
		c.MarkDirty(state.ID)
	}
}

func (c *Cached) CollectPathDependentEvaluators(set *evaluation.Set) {
	if c.dirtyOnTransition {
		set.Add(c)
	}
	c.inner.CollectPathDependentEvaluators(set)
}

func (c *Cached) DeadEndsAreReliable() bool        { return c.inner.DeadEndsAreReliable() }
func (c *Cached) UsedForBoosting() bool            { return c.inner.UsedForBoosting() }
func (c *Cached) UsedForReportingMinima() bool     { return c.inner.UsedForReportingMinima() }
func (c *Cached) UsedForCountingEvaluations() bool { return c.inner.UsedForCountingEvaluations() }
func (c *Cached) Description() string              { return "cached(" + c.inner.Description() + ")" }
