package evaluation

import (
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/observability"
)

// Context memoizes evaluator results for one state, g value and preferred flag.
type Context struct {
	state              domain.State
	g                  int
	preferred          bool
	calculatePreferred bool
	stats              *observability.Statistics

	results map[Evaluator]Result
	order   []Evaluator
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithPreferredOperators asks evaluators to also compute preferred operators.
func WithPreferredOperators() ContextOption {
	return func(c *Context) {
		c.calculatePreferred = true
	}
}

// NewContext creates a context. stats may be nil.
func NewContext(state domain.State, g int, isPreferred bool, stats *observability.Statistics, opts ...ContextOption) *Context {
	c := &Context{
		state:     state,
		g:         g,
		preferred: isPreferred,
		stats:     stats,
		results:   make(map[Evaluator]Result),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result evaluates e at most once per context.
func (c *Context) Result(e Evaluator) Result {
	if r, ok := c.results[e]; ok && r.evaluated {
		return r
	}
	r := e.ComputeResult(c)
	r.evaluated = true
	c.results[e] = r
	c.order = append(c.order, e)
	if c.stats != nil && e.UsedForCountingEvaluations() && r.CountEvaluation {
		c.stats.IncEvaluations()
	}
	return r
}

// Value returns the estimate of e. ok is false for a dead end.
func (c *Context) Value(e Evaluator) (value int, ok bool) {
	r := c.Result(e)
	if r.IsInfinite() {
		return 0, false
	}
	return r.Value, true
}

// ValueOrInfinity returns the estimate of e, or domain.Infinity.
func (c *Context) ValueOrInfinity(e Evaluator) int {
	return c.Result(e).Value
}

// IsInfinite reports whether e considers the state a dead end.
func (c *Context) IsInfinite(e Evaluator) bool {
	return c.Result(e).IsInfinite()
}

// PreferredOperators returns the preferred operators computed by e.
func (c *Context) PreferredOperators(e Evaluator) []domain.OperatorID {
	return c.Result(e).PreferredOperators
}

// IsPreferredOperator reports whether e lists op as preferred.
func (c *Context) IsPreferredOperator(e Evaluator, op domain.OperatorID) bool {
	for _, p := range c.PreferredOperators(e) {
		if p == op {
			return true
		}
	}
	return false
}

// ForEachResult visits the results computed so far in evaluation order.
func (c *Context) ForEachResult(fn func(Evaluator, Result)) {
	for _, e := range c.order {
		fn(e, c.results[e])
	}
}

func (c *Context) State() domain.State                   { return c.state }
func (c *Context) G() int                                { return c.g }
func (c *Context) IsPreferred() bool                     { return c.preferred }
func (c *Context) CalculatePreferred() bool              { return c.calculatePreferred }
func (c *Context) Statistics() *observability.Statistics { return c.stats }
