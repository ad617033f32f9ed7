package openlist

import (
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/ports"
)

// admits applies the insertion gate shared by every ordering.
func admits(list ports.OpenList, ctx *evaluation.Context) bool {
	if list.OnlyContainsPreferredEntries() && !ctx.IsPreferred() {
		return false
	}
	return !list.IsDeadEnd(ctx)
}

func mustNotBeEmpty(n int) {
	if n == 0 {
		panic("openlist: RemoveMin on empty list")
	}
}

// queue is a FIFO of state IDs that reuses its backing array.
type queue struct {
	items []domain.StateID
	head  int
}

func (q *queue) push(id domain.StateID) {
	q.items = append(q.items, id)
}

func (q *queue) pop() domain.StateID {
	id := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return id
}

func (q *queue) len() int {
	return len(q.items) - q.head
}
