package ports

import (
	"time"

	"github.com/aretw0/thicket/pkg/domain"
)

// PruningMethod filters the applicable operators of a state before expansion.
type PruningMethod interface {
	Initialize(task Task)
	// PruneOperators may reorder and shrink ops in place and returns the kept prefix.
	PruneOperators(state domain.State, ops []domain.OperatorID) []domain.OperatorID
}

// PruningStatistics summarizes the effect of a pruning method.
type PruningStatistics struct {
	SuccessorsBefore int64
	SuccessorsAfter  int64
	Elapsed          time.Duration
}
