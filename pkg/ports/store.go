package ports

import (
	"context"

	"github.com/aretw0/thicket/pkg/domain"
)

// PlanStore persists the outcome of search runs.
type PlanStore interface {
	// Save persists the record under record.ID.
	Save(ctx context.Context, record *domain.PlanRecord) error

	// Load retrieves a record by ID.
	// Returns domain.ErrPlanNotFound if the record does not exist.
	Load(ctx context.Context, id string) (*domain.PlanRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored records.
	List(ctx context.Context) ([]string, error)
}
