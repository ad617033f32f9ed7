package openlist

import (
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/ports"
)

// Alternation serves its sublists round-robin. Each sublist carries a
// priority counter; the non-empty sublist with the lowest counter is served
// and its counter incremented.
type Alternation struct {
	lists      []ports.OpenList
	priorities []int
	boost      int
}

var _ ports.OpenList = (*Alternation)(nil)

// NewAlternation combines lists. boost is subtracted from the counter of
// every preferred-only sublist on BoostPreferred.
func NewAlternation(lists []ports.OpenList, boost int) *Alternation {
	if len(lists) == 0 {
		panic("openlist: alternation needs at least one sublist")
	}
	return &Alternation{lists: lists, priorities: make([]int, len(lists)), boost: boost}
}

// Insert offers the entry to every sublist once the list as a whole admits
// it; each sublist then applies its own gate.
func (l *Alternation) Insert(ctx *evaluation.Context, id domain.StateID) {
	if !admits(l, ctx) {
		return
	}
	for _, sub := range l.lists {
		sub.Insert(ctx, id)
	}
}

func (l *Alternation) RemoveMin() domain.StateID {
	best := -1
	for i, sub := range l.lists {
		if sub.Empty() {
			continue
		}
		if best < 0 || l.priorities[i] < l.priorities[best] {
			best = i
		}
	}
	if best < 0 {
		panic("openlist: RemoveMin on empty list")
	}
	l.priorities[best]++
	return l.lists[best].RemoveMin()
}

// Empty is true only when every sublist is empty.
func (l *Alternation) Empty() bool {
	for _, sub := range l.lists {
		if !sub.Empty() {
			return false
		}
	}
	return true
}

// Len counts entries across sublists, so one state may be counted several times.
func (l *Alternation) Len() int {
	n := 0
	for _, sub := range l.lists {
		n += sub.Len()
	}
	return n
}

func (l *Alternation) Clear() {
	for i, sub := range l.lists {
		sub.Clear()
		l.priorities[i] = 0
	}
}

func (l *Alternation) BoostPreferred() {
	for i, sub := range l.lists {
		if sub.OnlyContainsPreferredEntries() {
			l.priorities[i] -= l.boost
		}
	}
}

// Priorities returns a copy of the sublist counters.
func (l *Alternation) Priorities() []int {
	return append([]int(nil), l.priorities...)
}

func (l *Alternation) CollectPathDependentEvaluators(set *evaluation.Set) {
	for _, sub := range l.lists {
		sub.CollectPathDependentEvaluators(set)
	}
}

func (l *Alternation) OnlyContainsPreferredEntries() bool {
	for _, sub := range l.lists {
		if !sub.OnlyContainsPreferredEntries() {
			return false
		}
	}
	return true
}

// IsDeadEnd is true if any sublist proves a dead end or all sublists suspect one.
func (l *Alternation) IsDeadEnd(ctx *evaluation.Context) bool {
	if l.IsReliableDeadEnd(ctx) {
		return true
	}
	for _, sub := range l.lists {
		if !sub.IsDeadEnd(ctx) {
			return false
		}
	}
	return true
}

func (l *Alternation) IsReliableDeadEnd(ctx *evaluation.Context) bool {
	for _, sub := range l.lists {
		if sub.IsReliableDeadEnd(ctx) {
			return true
		}
	}
	return false
}
