package evaluators

import (
	"fmt"
	"strings"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
)

// combining holds the behavior shared by Sum and Max: a dead end in any
// sub-evaluator is a dead end of the combination.
type combining struct {
	evaluation.Base
	subs []evaluation.Evaluator
}

func newCombining(kind string, subs []evaluation.Evaluator) combining {
	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Description()
	}
	return combining{
		Base: evaluation.Base{Name: fmt.Sprintf("%s(%s)", kind, strings.Join(names, ", "))},
		subs: subs,
	}
}

func (c *combining) values(ctx *evaluation.Context) ([]int, bool) {
	vals := make([]int, len(c.subs))
	for i, s := range c.subs {
		v, ok := ctx.Value(s)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func (c *combining) DeadEndsAreReliable() bool {
	for _, s := range c.subs {
		if !s.DeadEndsAreReliable() {
			return false
		}
	}
	return true
}

func (c *combining) CollectPathDependentEvaluators(set *evaluation.Set) {
	for _, s := range c.subs {
		s.CollectPathDependentEvaluators(set)
	}
}

// Sum adds its sub-evaluators.
type Sum struct{ combining }

// NewSum creates a sum evaluator, e.g. g + h for A*.
func NewSum(subs ...evaluation.Evaluator) *Sum {
	return &Sum{newCombining("sum", subs)}
}

func (e *Sum) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	vals, ok := e.values(ctx)
	if !ok {
		return evaluation.DeadEnd()
	}
	total := 0
	for _, v := range vals {
		total = saturatingAdd(total, v)
	}
	return evaluation.NewResult(total)
}

// Max takes the maximum of its sub-evaluators.
type Max struct{ combining }

// NewMax creates a max evaluator.
func NewMax(subs ...evaluation.Evaluator) *Max {
	return &Max{newCombining("max", subs)}
}

func (e *Max) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	vals, ok := e.values(ctx)
	if !ok {
		return evaluation.DeadEnd()
	}
	best := 0
	for i, v := range vals {
		if i == 0 || v > best {
			best = v
		}
	}
	return evaluation.NewResult(best)
}

// Weighted multiplies a sub-evaluator by a constant weight.
type Weighted struct {
	evaluation.Base
	sub    evaluation.Evaluator
	weight int
}

// NewWeighted creates a weighted evaluator.
func NewWeighted(sub evaluation.Evaluator, weight int) *Weighted {
	return &Weighted{
		Base:   evaluation.Base{Name: fmt.Sprintf("weight(%s, %d)", sub.Description(), weight)},
		sub:    sub,
		weight: weight,
	}
}

func (e *Weighted) ComputeResult(ctx *evaluation.Context) evaluation.Result {
	v, ok := ctx.Value(e.sub)
	if !ok {
		return evaluation.DeadEnd()
	}
	if v != 0 && e.weight > domain.Infinity/v {
		return evaluation.NewResult(domain.Infinity - 1)
	}
	return evaluation.NewResult(v * e.weight)
}

func (e *Weighted) DeadEndsAreReliable() bool { return e.sub.DeadEndsAreReliable() }

func (e *Weighted) CollectPathDependentEvaluators(set *evaluation.Set) {
	e.sub.CollectPathDependentEvaluators(set)
}

func saturatingAdd(a, b int) int {
	if a > domain.Infinity-1-b {
		return domain.Infinity - 1
	}
	return a + b
}
