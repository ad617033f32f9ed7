package openlist

import (
	"github.com/aretw0/thicket/pkg/evaluation"
	"github.com/aretw0/thicket/pkg/ports"
)

// SingleFactory builds BestFirst lists.
type SingleFactory struct {
	Eval          evaluation.Evaluator
	OnlyPreferred bool
}

func (f SingleFactory) CreateStateOpenList() ports.OpenList {
	return NewBestFirst(f.Eval, f.OnlyPreferred)
}

// TiebreakingFactory builds Tiebreaking lists.
type TiebreakingFactory struct {
	Evals         []evaluation.Evaluator
	OnlyPreferred bool
	UnsafePruning bool
}

func (f TiebreakingFactory) CreateStateOpenList() ports.OpenList {
	return NewTiebreaking(f.Evals, f.OnlyPreferred, f.UnsafePruning)
}

// AlternationFactory builds an Alternation over freshly created sublists.
type AlternationFactory struct {
	Sublists []ports.OpenListFactory
	Boost    int
}

func (f AlternationFactory) CreateStateOpenList() ports.OpenList {
	lists := make([]ports.OpenList, len(f.Sublists))
	for i, sub := range f.Sublists {
		lists[i] = sub.CreateStateOpenList()
	}
	return NewAlternation(lists, f.Boost)
}

var (
	_ ports.OpenListFactory = SingleFactory{}
	_ ports.OpenListFactory = TiebreakingFactory{}
	_ ports.OpenListFactory = AlternationFactory{}
)
