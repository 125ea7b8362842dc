package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	contractsv1 "rewardsplit/contracts/gen/events/v1"
)

var (
	ErrBusClosed         = errors.New("event bus is closed")
	ErrSubscriberBacklog = errors.New("event bus subscriber backlog is full")
)

const subscriberBuffer = 128

type Handler func(context.Context, contractsv1.Envelope) error

// Kafka is the event bus the outbox relay publishes to. Delivery is
// in-process; the broker list is carried for the external transport.
type Kafka struct {
	mu          sync.Mutex
	brokers     []string
	subscribers map[string][]chan contractsv1.Envelope
	closed      bool
	logger      *slog.Logger
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{
		brokers:     append([]string(nil), brokers...),
		subscribers: make(map[string][]chan contractsv1.Envelope),
		logger:      logger,
	}, nil
}

func (k *Kafka) Brokers() []string {
	return append([]string(nil), k.brokers...)
}

func (k *Kafka) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	if err := event.Validate(); err != nil {
		return err
	}

	// Publish is the only sender and holds the write lock, so once every
	// buffer has room none of the sends below can block. A full buffer fails
	// the whole publish and nothing is delivered.
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return ErrBusClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subscribers := k.subscribers[topic]
	for _, sub := range subscribers {
		if len(sub) == cap(sub) {
			k.logger.Warn("subscriber backlog full",
				"event", "kafka_publish_backlog_full",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_id", event.EventID,
			)
			return fmt.Errorf("%w: topic %s", ErrSubscriberBacklog, topic)
		}
	}
	for _, sub := range subscribers {
		sub <- event
	}

	k.logger.Debug("event published",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}

// Subscribe delivers events on topic to handler until ctx is done. Events
// are handled one at a time, in publish order.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler Handler,
) error {
	ch := make(chan contractsv1.Envelope, subscriberBuffer)

	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return ErrBusClosed
	}
	k.subscribers[topic] = append(k.subscribers[topic], ch)
	k.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				k.removeSubscriber(topic, ch)
				return
			case event, ok := <-ch:
				if !ok {
					return
				}
				if err := handler(ctx, event); err != nil {
					k.logger.Error("consumer handler failed",
						"event", "kafka_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

// Close stops every subscriber; later Publish and Subscribe calls fail.
func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true
	for topic, items := range k.subscribers {
		for _, ch := range items {
			close(ch)
		}
		delete(k.subscribers, topic)
	}
	return nil
}

func (k *Kafka) removeSubscriber(topic string, target chan contractsv1.Envelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := k.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan contractsv1.Envelope, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	k.subscribers[topic] = filtered
}
