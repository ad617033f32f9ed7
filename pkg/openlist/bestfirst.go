package openlist

import (
	"container/heap"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/ports"
)

// BestFirst orders entries by a single evaluator, FIFO among ties.
type BestFirst struct {
	eval          evaluation.Evaluator
	onlyPreferred bool

	buckets map[int]*queue
	keys    intHeap
	size    int
}

var _ ports.OpenList = (*BestFirst)(nil)

// NewBestFirst creates a list keyed by eval.
func NewBestFirst(eval evaluation.Evaluator, onlyPreferred bool) *BestFirst {
	return &BestFirst{
		eval:          eval,
		onlyPreferred: onlyPreferred,
		buckets:       make(map[int]*queue),
	}
}

func (l *BestFirst) Insert(ctx *evaluation.Context, id domain.StateID) {
	if !admits(l, ctx) {
		return
	}
	key := ctx.ValueOrInfinity(l.eval)
	b, ok := l.buckets[key]
	if !ok {
		b = &queue{}
		l.buckets[key] = b
		heap.Push(&l.keys, key)
	}
	b.push(id)
	l.size++
}

func (l *BestFirst) RemoveMin() domain.StateID {
	mustNotBeEmpty(l.size)
	key := l.keys[0]
	b := l.buckets[key]
	id := b.pop()
	if b.len() == 0 {
		heap.Pop(&l.keys)
		delete(l.buckets, key)
	}
	l.size--
	return id
}

func (l *BestFirst) Empty() bool { return l.size == 0 }
func (l *BestFirst) Len() int    { return l.size }

func (l *BestFirst) Clear() {
	l.buckets = make(map[int]*queue)
	l.keys = l.keys[:0]
	l.size = 0
}

// BoostPreferred is a no-op: a single list has nothing to boost.
func (l *BestFirst) BoostPreferred() {}

func (l *BestFirst) CollectPathDependentEvaluators(set *evaluation.Set) {
	l.eval.CollectPathDependentEvaluators(set)
}

func (l *BestFirst) OnlyContainsPreferredEntries() bool { return l.onlyPreferred }

func (l *BestFirst) IsDeadEnd(ctx *evaluation.Context) bool {
	return ctx.IsInfinite(l.eval)
}

func (l *BestFirst) IsReliableDeadEnd(ctx *evaluation.Context) bool {
	return l.IsDeadEnd(ctx) && l.eval.DeadEndsAreReliable()
}

type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
