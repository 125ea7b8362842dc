package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	contractsv1 "rewardsplit/contracts/gen/events/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *Kafka {
	t.Helper()
	bus, err := NewKafka([]string{"localhost:9092"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func testEvent(id string) contractsv1.Envelope {
	return contractsv1.Envelope{
		EventID:       id,
		EventType:     "payout_structure.row_appended",
		OccurredAt:    time.Now().UTC(),
		SchemaVersion: 1,
		PartitionKey:  "s-1",
		Data:          json.RawMessage(`{"row_index":0}`),
	}
}

func TestPublishDeliversInOrder(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 3)
	require.NoError(t, bus.Subscribe(ctx, "payouts", "cg", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event.EventID
		return nil
	}))

	for _, id := range []string{"e-1", "e-2", "e-3"} {
		require.NoError(t, bus.Publish(ctx, "payouts", testEvent(id)))
	}
	require.NoError(t, bus.Publish(ctx, "other", testEvent("e-4")))

	for _, want := range []string{"e-1", "e-2", "e-3"} {
		select {
		case got := <-received:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
	assert.Equal(t, []string{"localhost:9092"}, bus.Brokers())
}

func TestPublishRejectsInvalidEnvelope(t *testing.T) {
	bus := newTestBus(t)
	event := testEvent("e-1")
	event.PartitionKey = ""
	assert.ErrorIs(t, bus.Publish(context.Background(), "payouts", event), contractsv1.ErrInvalidEnvelope)
}

func TestClosedBusRejectsCalls(t *testing.T) {
	bus := newTestBus(t)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(context.Background(), "payouts", testEvent("e-1")), ErrBusClosed)
	err := bus.Subscribe(context.Background(), "payouts", "cg", func(context.Context, contractsv1.Envelope) error { return nil })
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestPublishFailsWhenSubscriberBacklogIsFull(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gate := make(chan struct{})
	received := make(chan string, subscriberBuffer+2)
	require.NoError(t, bus.Subscribe(ctx, "payouts", "cg", func(_ context.Context, event contractsv1.Envelope) error {
		<-gate
		received <- event.EventID
		return nil
	}))

	accepted := 0
	var err error
	for i := 0; i < subscriberBuffer+2; i++ {
		if err = bus.Publish(ctx, "payouts", testEvent(fmt.Sprintf("e-%d", i))); err != nil {
			break
		}
		accepted++
	}
	require.ErrorIs(t, err, ErrSubscriberBacklog)
	assert.GreaterOrEqual(t, accepted, subscriberBuffer)

	close(gate)
	for i := 0; i < accepted; i++ {
		select {
		case got := <-received:
			assert.Equal(t, fmt.Sprintf("e-%d", i), got)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for e-%d", i)
		}
	}
	require.NoError(t, bus.Publish(ctx, "payouts", testEvent("e-retry")))
}
