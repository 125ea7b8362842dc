package ports

import (
	"context"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	contractsv1 "rewardsplit/contracts/gen/events/v1"

	"github.com/shopspring/decimal"
)

// RowStore is the ordered collection of payout rows of one structure.
type RowStore interface {
	Append(row entities.Row) int
	Remove(index int) error
	Get(index int) (entities.Row, error)
	Set(index int, field entities.Field, value decimal.NullDecimal) error
	All() []entities.Row
	Len() int
}

// TotalRewardStore holds the total reward shared by every row of one
// structure. Set notifies subscribers synchronously, in registration order.
type TotalRewardStore interface {
	Get() decimal.Decimal
	Set(value decimal.Decimal)
	Subscribe(fn func(previous, current decimal.Decimal)) (unsubscribe func())
}

// Session bundles the state owned by one structure. Engine-level access goes
// through the application layer; adapters only create and hand out sessions.
type Session struct {
	Structure   entities.Structure
	Rows        RowStore
	TotalReward TotalRewardStore
}

type StructureRepository interface {
	CreateStructure(ctx context.Context, structure entities.Structure, totalReward decimal.Decimal) (Session, error)
	GetStructure(ctx context.Context, structureID string) (Session, error)
	TouchStructure(ctx context.Context, structureID string, updatedAt time.Time) error
	DeleteStructure(ctx context.Context, structureID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type RowInput struct {
	RecipientCount string
	PercentAmount  string
}

type CreateStructureInput struct {
	TotalReward string
	Rows        []RowInput
}

type StructureView struct {
	Structure   entities.Structure
	TotalReward decimal.Decimal
	Rows        []entities.Row
	PercentSum  decimal.Decimal
	Validation  entities.ValidationResult
}

type RowEditResult struct {
	Reconciliation entities.Reconciliation
	PercentSum     decimal.Decimal
}

type TotalRewardResult struct {
	Reconciliation entities.TotalReconciliation
	PercentSum     decimal.Decimal
}

type RowAppendResult struct {
	RowIndex   int
	Row        entities.Row
	PercentSum decimal.Decimal
}
