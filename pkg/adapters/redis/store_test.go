package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/thicket/pkg/adapters/redis"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newMiniredis(t)
	store := redis.NewFromClient(client)
	defer store.Close()

	ports.RunPlanStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newMiniredis(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	record := &domain.PlanRecord{
		ID:     "plan-ttl",
		Task:   "ttl",
		Status: domain.StatusSolved,
		Steps:  []domain.PlanStep{{Operator: 0, Name: "noop", Cost: 1}},
		Cost:   1,
	}

	require.NoError(t, store.Save(ctx, record))

	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, record.ID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	// The index is pruned against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newMiniredis(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, &domain.PlanRecord{ID: "my-plan", Status: domain.StatusFailed, Cost: -1})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-plan"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, "my-plan")
}
