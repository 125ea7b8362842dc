package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/adapters/memory"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topics []string
	events []ports.EventEnvelope
	failAt int
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failAt > 0 && len(p.events)+1 == p.failAt {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func appendEvents(t *testing.T, store *memory.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, store.AppendOutbox(context.Background(), ports.EventEnvelope{
			EventID:       id,
			EventType:     "payout_structure.row_reconciled",
			OccurredAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			SchemaVersion: 1,
			PartitionKey:  "structure-1",
			Data:          json.RawMessage(`{"structure_id":"structure-1"}`),
		}))
	}
}

func TestRelayPublishesInOrderAndMarksPublished(t *testing.T) {
	store := memory.NewStoreWithClock(clockwork.NewFakeClock())
	appendEvents(t, store, "e-1", "e-2", "e-3")
	publisher := &capturePublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 10}

	published, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, published)
	require.Len(t, publisher.events, 3)
	assert.Equal(t, "e-1", publisher.events[0].EventID)
	assert.Equal(t, "e-3", publisher.events[2].EventID)
	assert.Equal(t, []string{DefaultTopic, DefaultTopic, DefaultTopic}, publisher.topics)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	published, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestRelayStopsAtFirstPublishFailure(t *testing.T) {
	store := memory.NewStore()
	appendEvents(t, store, "e-1", "e-2", "e-3")
	publisher := &capturePublisher{failAt: 2}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Topic: "custom.topic"}

	published, err := relay.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, published)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "e-2", pending[0].OutboxID)
	assert.Equal(t, []string{"custom.topic"}, publisher.topics)
}

func TestRelayRespectsBatchSize(t *testing.T) {
	store := memory.NewStore()
	appendEvents(t, store, "e-1", "e-2", "e-3")
	relay := OutboxRelay{Outbox: store, Publisher: &capturePublisher{}, BatchSize: 2}

	published, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, published)

	published, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
}
