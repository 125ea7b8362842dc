package application

import (
	"context"
	"testing"

	"rewardsplit/contexts/finance-core/payout-structure-service/adapters/memory"
	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryKeepsOneEnginePerStructure(t *testing.T) {
	store := memory.NewStore()
	session, err := store.CreateStructure(context.Background(), entities.Structure{StructureID: "s-1", OwnerID: "op"}, d("100"))
	require.NoError(t, err)
	totals := session.TotalReward.(*memory.TotalRewardStore)

	registry := NewEngineRegistry()
	first := registry.Resolve(session)
	second := registry.Resolve(session)
	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 1, totals.SubscriberCount())

	registry.Release("s-1")
	registry.Release("s-1")
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, 0, totals.SubscriberCount())
}
