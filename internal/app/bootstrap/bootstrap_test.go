package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/adapters/memory"
	workerapp "rewardsplit/contexts/finance-core/payout-structure-service/application/workers"
	contractsv1 "rewardsplit/contracts/gen/events/v1"
	"rewardsplit/internal/platform/messaging"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":8080", normalizeAddr(""))
	assert.Equal(t, ":9000", normalizeAddr(" 9000 "))
	assert.Equal(t, "127.0.0.1:9000", normalizeAddr("127.0.0.1:9000"))
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"POSTGRES_DSN", "BOLT_PATH", "HTTP_PORT"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestBuildAPIWithBoltOutbox(t *testing.T) {
	isolateEnv(t)
	t.Setenv("BOLT_PATH", filepath.Join(t.TempDir(), "outbox.db"))

	app, err := BuildAPI(Options{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	assert.NotNil(t, app.bolt)
	assert.Nil(t, app.postgres)
	require.NotNil(t, app.relay)
	assert.NoError(t, app.Close())
}

func TestBuildAPIDefaultsToMemoryOutbox(t *testing.T) {
	isolateEnv(t)

	app, err := BuildAPI(Options{})
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.bolt)
	assert.NotNil(t, app.relay)
	assert.NotNil(t, app.bus)
}

func TestBuildWorkerRequiresPostgres(t *testing.T) {
	isolateEnv(t)
	_, err := BuildWorker(Options{})
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestRelayLoopPublishesUntilCancelled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStoreWithClock(clockwork.NewFakeClock())
	require.NoError(t, store.AppendOutbox(context.Background(), contractsv1.Envelope{
		EventID:       "e-1",
		EventType:     "payout_structure.created",
		SchemaVersion: 1,
		PartitionKey:  "s-1",
	}))

	bus, err := messaging.NewKafka(nil, logger)
	require.NoError(t, err)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan string, 1)
	require.NoError(t, bus.Subscribe(ctx, workerapp.DefaultTopic, "test-cg", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event.EventID
		return nil
	}))

	loop := &relayLoop{
		relay:    workerapp.OutboxRelay{Outbox: store, Publisher: bus, Clock: store, Logger: logger},
		interval: 10 * time.Millisecond,
		logger:   logger,
	}
	done := make(chan error, 1)
	go func() { done <- loop.run(ctx) }()

	select {
	case id := <-received:
		assert.Equal(t, "e-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not publish")
	}
	cancel()
	require.NoError(t, <-done)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
