package ports

import (
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/evaluation"
)

// OpenList is a frontier of StateIDs ordered by evaluator values.
// The same StateID may be inserted several times; stale copies are
// filtered by the search loop.
type OpenList interface {
	// Insert adds id unless the list only admits preferred entries and the
	// context is not preferred, or the context is a dead end for the list.
	Insert(ctx *evaluation.Context, id domain.StateID)
	// RemoveMin pops the best entry. It panics on an empty list.
	RemoveMin() domain.StateID
	Empty() bool
	Len() int
	Clear()
	// BoostPreferred raises the priority of preferred-only sublists.
	BoostPreferred()
	CollectPathDependentEvaluators(set *evaluation.Set)
	OnlyContainsPreferredEntries() bool
	IsDeadEnd(ctx *evaluation.Context) bool
	IsReliableDeadEnd(ctx *evaluation.Context) bool
}

// OpenListFactory builds a fresh open list for each search run.
type OpenListFactory interface {
	CreateStateOpenList() OpenList
}
