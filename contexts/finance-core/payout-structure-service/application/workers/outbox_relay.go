package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "rewardsplit/contexts/finance-core/payout-structure-service/application"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"
)

const DefaultTopic = "payout_structure.events"

type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes one batch of pending outbox messages in creation order
// and stops at the first failure so that ordering per structure is kept.
func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "payout_structure_outbox_list_failed",
			"module", "finance-core/payout-structure-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	published := 0
	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "payout_structure_outbox_decode_failed",
				"module", "finance-core/payout-structure-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "payout_structure_outbox_publish_failed",
				"module", "finance-core/payout-structure-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return published, err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "payout_structure_outbox_mark_published_failed",
				"module", "finance-core/payout-structure-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		published++
	}

	if published > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "payout_structure_outbox_relay_completed",
			"module", "finance-core/payout-structure-service",
			"layer", "worker",
			"published_count", published,
		)
	}
	return published, nil
}
