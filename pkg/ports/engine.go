package ports

import (
	"context"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/observability"
)

// SearchEngine is a step-wise best-first search over a single task.
type SearchEngine interface {
	// Initialize evaluates and opens the initial state.
	Initialize() error
	// Step expands at most one node and reports the resulting status.
	Step() (domain.SearchStatus, error)
	// Search runs Initialize and Step until a terminal status, honoring
	// cancellation and the configured limits between steps.
	Search(ctx context.Context) (domain.SearchStatus, error)
	// Plan returns the plan of a solved run.
	Plan() (domain.Plan, error)
	Statistics() *observability.Statistics
}
