package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRecord(id string) *domain.PlanRecord {
	return &domain.PlanRecord{
		ID:     id,
		Task:   "contract",
		Status: domain.StatusSolved,
		Cost:   3,
		Steps: []domain.PlanStep{
			{Operator: 0, Name: "move a b", Cost: 1},
			{Operator: 2, Name: "move b c", Cost: 2},
		},
		Statistics: map[string]int64{"expanded": 4},
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

// RunPlanStoreContract runs a suite of tests to verify that a PlanStore implementation
// adheres to the defined interface contract.
func RunPlanStoreContract(t *testing.T, store PlanStore) {
	ctx := context.Background()
	planID := "contract-test-plan-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		record := contractRecord(planID)

		err := store.Save(ctx, record)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, planID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, record.Task, loaded.Task)
		assert.Equal(t, record.Status, loaded.Status)
		assert.Equal(t, record.Cost, loaded.Cost)
		assert.Equal(t, record.Steps, loaded.Steps)
		assert.Equal(t, int64(4), loaded.Statistics["expanded"])
		assert.True(t, record.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, planID)
		require.NoError(t, err)
		loaded.Steps[0].Name = "mutated"

		again, err := store.Load(ctx, planID)
		require.NoError(t, err)
		assert.Equal(t, "move a b", again.Steps[0].Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+planID)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractRecord(planID)))

		err := store.Delete(ctx, planID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, planID)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound, "Load after Delete should return ErrPlanNotFound")

		assert.NoError(t, store.Delete(ctx, planID), "deleting twice is harmless")
	})

	t.Run("List", func(t *testing.T) {
		id1 := planID + "-1"
		id2 := planID + "-2"
		_ = store.Save(ctx, contractRecord(id1))
		_ = store.Save(ctx, contractRecord(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
