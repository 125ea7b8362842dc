package application

import (
	"encoding/json"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"

	"github.com/shopspring/decimal"
)

const (
	EventStructureCreated     = "payout_structure.created"
	EventRowReconciled        = "payout_structure.row_reconciled"
	EventTotalRewardChanged   = "payout_structure.total_reward_changed"
	EventRowAppended          = "payout_structure.row_appended"
	EventRowRemoved           = "payout_structure.row_removed"
	EventRowFieldCleared      = "payout_structure.row_field_cleared"
	EventStructureDeleted     = "payout_structure.deleted"
	payoutStructureSourceName = "payout-structure-service"
)

func newStructureEnvelope(
	eventID string,
	eventType string,
	structureID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    payoutStructureSourceName,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "structure_id",
		PartitionKey:     structureID,
		Data:             payload,
	}, nil
}

func rowPayload(row entities.Row) map[string]any {
	return map[string]any{
		"recipient_count": nullString(row.RecipientCount, 0),
		"percent_amount":  nullString(row.PercentAmount, 2),
		"currency_amount": nullString(row.CurrencyAmount, 2),
	}
}

func nullString(value decimal.NullDecimal, places int32) any {
	if !value.Valid {
		return nil
	}
	return value.Decimal.StringFixed(places)
}
