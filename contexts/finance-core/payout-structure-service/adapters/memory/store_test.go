package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	session, err := store.CreateStructure(ctx, entities.Structure{StructureID: " s-1 ", OwnerID: "op"}, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, "s-1", session.Structure.StructureID)
	assert.Equal(t, "500", session.TotalReward.Get().String())
	assert.Zero(t, session.Rows.Len())

	_, err = store.CreateStructure(ctx, entities.Structure{StructureID: "s-1"}, decimal.Zero)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	_, err = store.CreateStructure(ctx, entities.Structure{}, decimal.Zero)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	touchedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.TouchStructure(ctx, "s-1", touchedAt))
	loaded, err := store.GetStructure(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, touchedAt, loaded.Structure.UpdatedAt)
	assert.Same(t, session.Rows, loaded.Rows)

	require.NoError(t, store.DeleteStructure(ctx, "s-1"))
	_, err = store.GetStructure(ctx, "s-1")
	assert.ErrorIs(t, err, domainerrors.ErrStructureNotFound)
	assert.ErrorIs(t, store.DeleteStructure(ctx, "s-1"), domainerrors.ErrStructureNotFound)
	assert.ErrorIs(t, store.TouchStructure(ctx, "s-1", touchedAt), domainerrors.ErrStructureNotFound)
}

func testEnvelope(id string, data string) ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:       id,
		EventType:     "payout_structure.created",
		OccurredAt:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		SchemaVersion: 1,
		PartitionKey:  "s-1",
		Data:          json.RawMessage(data),
	}
}

func TestOutboxAppendIsIdempotentPerEventID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.AppendOutbox(ctx, testEnvelope("e-1", `{"a":1}`)))
	require.NoError(t, store.AppendOutbox(ctx, testEnvelope("e-1", `{"a":1}`)))
	assert.ErrorIs(t, store.AppendOutbox(ctx, testEnvelope("e-1", `{"a":2}`)), domainerrors.ErrOutboxConflict)
	assert.ErrorIs(t, store.AppendOutbox(ctx, testEnvelope("", `{}`)), domainerrors.ErrInvalidInput)

	pending, err := store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestOutboxListsInAppendOrder(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	store := NewStoreWithClock(clock)
	ctx := context.Background()

	for _, id := range []string{"z", "a", "m"} {
		require.NoError(t, store.AppendOutbox(ctx, testEnvelope(id, `{}`)))
	}
	pending, err := store.ListPendingOutbox(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "z", pending[0].OutboxID)
	assert.Equal(t, "a", pending[1].OutboxID)

	require.NoError(t, store.MarkOutboxPublished(ctx, "z", store.Now()))
	pending, err = store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].OutboxID)

	assert.ErrorIs(t, store.MarkOutboxPublished(ctx, "missing", store.Now()), domainerrors.ErrOutboxNotFound)
}

func TestNowFollowsClock(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	store := NewStoreWithClock(clock)

	clock.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), store.Now())

	id, err := store.NewID(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, 36)
}
