package openlist

import (
	"container/heap"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/ports"
)

// Tiebreaking orders entries lexicographically by a tuple of evaluators,
// FIFO among equal tuples.
type Tiebreaking struct {
	evals         []evaluation.Evaluator
	onlyPreferred bool
	// unsafePruning lets the first evaluator alone decide dead ends.
	unsafePruning bool

	entries tupleHeap
	seq     uint64
}

var _ ports.OpenList = (*Tiebreaking)(nil)

// NewTiebreaking creates a list keyed by evals, most significant first.
func NewTiebreaking(evals []evaluation.Evaluator, onlyPreferred, unsafePruning bool) *Tiebreaking {
	if len(evals) == 0 {
		panic("openlist: tiebreaking needs at least one evaluator")
	}
	return &Tiebreaking{evals: evals, onlyPreferred: onlyPreferred, unsafePruning: unsafePruning}
}

func (l *Tiebreaking) Insert(ctx *evaluation.Context, id domain.StateID) {
	if !admits(l, ctx) {
		return
	}
	key := make([]int, len(l.evals))
	for i, e := range l.evals {
		key[i] = ctx.ValueOrInfinity(e)
	}
	heap.Push(&l.entries, tupleEntry{key: key, seq: l.seq, id: id})
	l.seq++
}

func (l *Tiebreaking) RemoveMin() domain.StateID {
	mustNotBeEmpty(len(l.entries))
	return heap.Pop(&l.entries).(tupleEntry).id
}

func (l *Tiebreaking) Empty() bool { return len(l.entries) == 0 }
func (l *Tiebreaking) Len() int    { return len(l.entries) }

func (l *Tiebreaking) Clear() {
	l.entries = l.entries[:0]
}

func (l *Tiebreaking) BoostPreferred() {}

func (l *Tiebreaking) CollectPathDependentEvaluators(set *evaluation.Set) {
	for _, e := range l.evals {
		e.CollectPathDependentEvaluators(set)
	}
}

func (l *Tiebreaking) OnlyContainsPreferredEntries() bool { return l.onlyPreferred }

// IsDeadEnd is true when a reliable evaluator says so, when every evaluator
// says so, or, with unsafe pruning, when the first one does.
func (l *Tiebreaking) IsDeadEnd(ctx *evaluation.Context) bool {
	if l.IsReliableDeadEnd(ctx) {
		return true
	}
	if l.unsafePruning && ctx.IsInfinite(l.evals[0]) {
		return true
	}
	for _, e := range l.evals {
		if !ctx.IsInfinite(e) {
			return false
		}
	}
	return true
}

func (l *Tiebreaking) IsReliableDeadEnd(ctx *evaluation.Context) bool {
	for _, e := range l.evals {
		if ctx.IsInfinite(e) && e.DeadEndsAreReliable() {
			return true
		}
	}
	return false
}

type tupleEntry struct {
	key []int
	seq uint64
	id  domain.StateID
}

type tupleHeap []tupleEntry

func (h tupleHeap) Len() int { return len(h) }
func (h tupleHeap) Less(i, j int) bool {
	a, b := h[i].key, h[j].key
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return h[i].seq < h[j].seq
}
func (h tupleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *tupleHeap) Push(x any)   { *h = append(*h, x.(tupleEntry)) }
func (h *tupleHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
