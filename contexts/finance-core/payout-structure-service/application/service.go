package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"
)

const defaultMaxRows = 100

// Service is the boundary in front of the reconciliation engine. It coerces
// raw operator input, rejects values the engine must never see, and records
// each accepted edit in the outbox.
type Service struct {
	Structures         ports.StructureRepository
	Engines            *EngineRegistry
	Outbox             ports.OutboxWriter
	Clock              ports.Clock
	IDGen              ports.IDGenerator
	MaxRows            int
	DisableEditJournal bool
	Logger             *slog.Logger
}

func (s Service) CreateStructure(
	ctx context.Context,
	operatorID string,
	input ports.CreateStructureInput,
) (ports.StructureView, error) {
	operatorID = strings.TrimSpace(operatorID)
	if operatorID == "" {
		return ports.StructureView{}, domainerrors.ErrInvalidInput
	}
	if len(input.Rows) > s.maxRows() {
		return ports.StructureView{}, domainerrors.ErrTooManyRows
	}
	total := entities.CoerceTotalReward(input.TotalReward)
	if err := entities.ValidateTotalReward(total); err != nil {
		return ports.StructureView{}, err
	}
	for _, row := range input.Rows {
		if err := validateRowInput(row); err != nil {
			return ports.StructureView{}, err
		}
	}

	structureID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.StructureView{}, err
	}
	now := s.now()
	session, err := s.Structures.CreateStructure(ctx, entities.Structure{
		StructureID: strings.TrimSpace(structureID),
		OwnerID:     operatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, total)
	if err != nil {
		return ports.StructureView{}, err
	}
	engine := s.Engines.Resolve(session)
	for _, row := range input.Rows {
		if _, err := appendRow(engine, row); err != nil {
			return ports.StructureView{}, err
		}
	}

	view := buildView(session.Structure, engine)
	s.record(ctx, EventStructureCreated, session.Structure.StructureID, now, map[string]any{
		"structure_id": session.Structure.StructureID,
		"owner_id":     operatorID,
		"total_reward": view.TotalReward.StringFixed(2),
		"row_count":    len(view.Rows),
		"percent_sum":  view.PercentSum.StringFixed(2),
	})

	ResolveLogger(s.Logger).Info("payout structure created",
		"event", "payout_structure_created",
		"module", "finance-core/payout-structure-service",
		"layer", "application",
		"structure_id", session.Structure.StructureID,
		"owner_id", operatorID,
		"row_count", len(view.Rows),
	)
	return view, nil
}

func (s Service) GetStructure(ctx context.Context, structureID string) (ports.StructureView, error) {
	session, err := s.Structures.GetStructure(ctx, strings.TrimSpace(structureID))
	if err != nil {
		return ports.StructureView{}, err
	}
	return buildView(session.Structure, s.Engines.Resolve(session)), nil
}

func (s Service) ChangeRecipientCount(ctx context.Context, operatorID, structureID string, rowIndex int, raw string) (ports.RowEditResult, error) {
	return s.ChangeRowField(ctx, operatorID, structureID, rowIndex, entities.FieldRecipientCount, raw)
}

func (s Service) ChangePercent(ctx context.Context, operatorID, structureID string, rowIndex int, raw string) (ports.RowEditResult, error) {
	return s.ChangeRowField(ctx, operatorID, structureID, rowIndex, entities.FieldPercentAmount, raw)
}

func (s Service) ChangeCurrency(ctx context.Context, operatorID, structureID string, rowIndex int, raw string) (ports.RowEditResult, error) {
	return s.ChangeRowField(ctx, operatorID, structureID, rowIndex, entities.FieldCurrencyAmount, raw)
}

// ChangeRowField applies one row edit. An undefined conversion is not an
// error: it is returned on the reconciliation for the caller to report.
func (s Service) ChangeRowField(
	ctx context.Context,
	operatorID string,
	structureID string,
	rowIndex int,
	field entities.Field,
	raw string,
) (ports.RowEditResult, error) {
	if !field.IsRowField() {
		return ports.RowEditResult{}, domainerrors.ErrInvalidField
	}
	value := entities.Coerce(field, raw)
	if err := entities.ValidateValue(field, value); err != nil {
		return ports.RowEditResult{}, err
	}

	session, engine, err := s.load(ctx, operatorID, structureID)
	if err != nil {
		return ports.RowEditResult{}, err
	}
	rec, err := engine.OnFieldChange(rowIndex, field, value)
	if err != nil {
		return ports.RowEditResult{}, err
	}
	result := ports.RowEditResult{
		Reconciliation: rec,
		PercentSum:     engine.GetPercentSum(),
	}

	now := s.touch(ctx, session)
	payload := map[string]any{
		"structure_id": session.Structure.StructureID,
		"row_index":    rowIndex,
		"edited_field": string(rec.Edited),
		"derived":      string(rec.Derived),
		"row":          rowPayload(rec.Row),
		"percent_sum":  result.PercentSum.StringFixed(2),
	}
	if rec.Condition != nil {
		payload["condition"] = rec.Condition.Error()
	}
	s.record(ctx, EventRowReconciled, session.Structure.StructureID, now, payload)

	logger := ResolveLogger(s.Logger)
	if rec.Undefined() {
		logger.Warn("payout row conversion undefined",
			"event", "payout_row_conversion_undefined",
			"module", "finance-core/payout-structure-service",
			"layer", "application",
			"structure_id", session.Structure.StructureID,
			"row_index", rowIndex,
			"edited_field", string(rec.Edited),
			"condition", rec.Condition.Error(),
		)
	} else {
		logger.Debug("payout row reconciled",
			"event", "payout_row_reconciled",
			"module", "finance-core/payout-structure-service",
			"layer", "application",
			"structure_id", session.Structure.StructureID,
			"row_index", rowIndex,
			"edited_field", string(rec.Edited),
			"derived_field", string(rec.Derived),
		)
	}
	return result, nil
}

func (s Service) ChangeTotalReward(
	ctx context.Context,
	operatorID string,
	structureID string,
	raw string,
) (ports.TotalRewardResult, error) {
	total := entities.CoerceTotalReward(raw)
	if err := entities.ValidateTotalReward(total); err != nil {
		return ports.TotalRewardResult{}, err
	}

	session, engine, err := s.load(ctx, operatorID, structureID)
	if err != nil {
		return ports.TotalRewardResult{}, err
	}
	rec := engine.OnTotalRewardChange(total)
	result := ports.TotalRewardResult{
		Reconciliation: rec,
		PercentSum:     entities.PercentSum(rec.Rows),
	}

	now := s.touch(ctx, session)
	s.record(ctx, EventTotalRewardChanged, session.Structure.StructureID, now, map[string]any{
		"structure_id": session.Structure.StructureID,
		"previous":     rec.Previous.StringFixed(2),
		"current":      rec.Current.StringFixed(2),
		"row_count":    len(rec.Rows),
		"skipped_rows": rec.Skipped,
		"percent_sum":  result.PercentSum.StringFixed(2),
	})

	ResolveLogger(s.Logger).Info("payout total reward changed",
		"event", "payout_total_reward_changed",
		"module", "finance-core/payout-structure-service",
		"layer", "application",
		"structure_id", session.Structure.StructureID,
		"previous", rec.Previous.String(),
		"current", rec.Current.String(),
		"recomputed_rows", len(rec.Rows)-len(rec.Skipped),
		"skipped_rows", len(rec.Skipped),
	)
	return result, nil
}

func (s Service) AppendRow(
	ctx context.Context,
	operatorID string,
	structureID string,
	input ports.RowInput,
) (ports.RowAppendResult, error) {
	if err := validateRowInput(input); err != nil {
		return ports.RowAppendResult{}, err
	}
	session, engine, err := s.load(ctx, operatorID, structureID)
	if err != nil {
		return ports.RowAppendResult{}, err
	}
	if engine.RowCount() >= s.maxRows() {
		return ports.RowAppendResult{}, domainerrors.ErrTooManyRows
	}
	index, err := appendRow(engine, input)
	if err != nil {
		return ports.RowAppendResult{}, err
	}
	row, err := engine.GetRow(index)
	if err != nil {
		return ports.RowAppendResult{}, err
	}
	result := ports.RowAppendResult{
		RowIndex:   index,
		Row:        row,
		PercentSum: engine.GetPercentSum(),
	}

	now := s.touch(ctx, session)
	s.record(ctx, EventRowAppended, session.Structure.StructureID, now, map[string]any{
		"structure_id": session.Structure.StructureID,
		"row_index":    index,
		"row":          rowPayload(row),
	})
	return result, nil
}

func (s Service) RemoveRow(
	ctx context.Context,
	operatorID string,
	structureID string,
	rowIndex int,
) (ports.StructureView, error) {
	session, engine, err := s.load(ctx, operatorID, structureID)
	if err != nil {
		return ports.StructureView{}, err
	}
	if err := engine.RemoveRow(rowIndex); err != nil {
		return ports.StructureView{}, err
	}

	now := s.touch(ctx, session)
	view := buildView(session.Structure, engine)
	view.Structure.UpdatedAt = now
	s.record(ctx, EventRowRemoved, session.Structure.StructureID, now, map[string]any{
		"structure_id": session.Structure.StructureID,
		"row_index":    rowIndex,
		"row_count":    len(view.Rows),
		"percent_sum":  view.PercentSum.StringFixed(2),
	})
	return view, nil
}

func (s Service) ClearField(
	ctx context.Context,
	operatorID string,
	structureID string,
	rowIndex int,
	field entities.Field,
) (ports.StructureView, error) {
	session, engine, err := s.load(ctx, operatorID, structureID)
	if err != nil {
		return ports.StructureView{}, err
	}
	if _, err := engine.ClearField(rowIndex, field); err != nil {
		return ports.StructureView{}, err
	}

	now := s.touch(ctx, session)
	view := buildView(session.Structure, engine)
	view.Structure.UpdatedAt = now
	s.record(ctx, EventRowFieldCleared, session.Structure.StructureID, now, map[string]any{
		"structure_id": session.Structure.StructureID,
		"row_index":    rowIndex,
		"field":        string(field),
	})
	return view, nil
}

func (s Service) DeleteStructure(ctx context.Context, operatorID string, structureID string) error {
	session, _, err := s.load(ctx, operatorID, structureID)
	if err != nil {
		return err
	}
	if err := s.Structures.DeleteStructure(ctx, session.Structure.StructureID); err != nil {
		return err
	}
	s.Engines.Release(session.Structure.StructureID)

	s.record(ctx, EventStructureDeleted, session.Structure.StructureID, s.now(), map[string]any{
		"structure_id": session.Structure.StructureID,
	})
	ResolveLogger(s.Logger).Info("payout structure deleted",
		"event", "payout_structure_deleted",
		"module", "finance-core/payout-structure-service",
		"layer", "application",
		"structure_id", session.Structure.StructureID,
	)
	return nil
}

func (s Service) load(ctx context.Context, operatorID string, structureID string) (ports.Session, *Engine, error) {
	operatorID = strings.TrimSpace(operatorID)
	if operatorID == "" {
		return ports.Session{}, nil, domainerrors.ErrInvalidInput
	}
	session, err := s.Structures.GetStructure(ctx, strings.TrimSpace(structureID))
	if err != nil {
		return ports.Session{}, nil, err
	}
	if !session.Structure.OwnedBy(operatorID) {
		return ports.Session{}, nil, domainerrors.ErrForbidden
	}
	return session, s.Engines.Resolve(session), nil
}

// touch and record run after the engine has applied an edit. The edit is
// already visible to readers, so their failures are logged, not returned.

func (s Service) touch(ctx context.Context, session ports.Session) time.Time {
	now := s.now()
	if err := s.Structures.TouchStructure(ctx, session.Structure.StructureID, now); err != nil {
		ResolveLogger(s.Logger).Error("payout structure touch failed",
			"event", "payout_structure_touch_failed",
			"module", "finance-core/payout-structure-service",
			"layer", "application",
			"structure_id", session.Structure.StructureID,
			"error", err.Error(),
		)
	}
	return now
}

func (s Service) record(ctx context.Context, eventType string, structureID string, occurredAt time.Time, data map[string]any) {
	if err := s.journal(ctx, eventType, structureID, occurredAt, data); err != nil {
		ResolveLogger(s.Logger).Error("payout structure event not journaled",
			"event", "payout_structure_journal_failed",
			"module", "finance-core/payout-structure-service",
			"layer", "application",
			"structure_id", structureID,
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (s Service) journal(ctx context.Context, eventType string, structureID string, occurredAt time.Time, data map[string]any) error {
	if s.Outbox == nil || s.DisableEditJournal {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newStructureEnvelope(strings.TrimSpace(eventID), eventType, structureID, occurredAt, data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, envelope)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) maxRows() int {
	if s.MaxRows <= 0 {
		return defaultMaxRows
	}
	return s.MaxRows
}

// appendRow adds a default row and lets the engine derive the currency
// amount from whatever recipient count and percent were supplied.
func appendRow(engine *Engine, input ports.RowInput) (int, error) {
	index, _ := engine.AppendRow(entities.DefaultRow())
	if strings.TrimSpace(input.RecipientCount) != "" {
		if _, err := engine.OnRecipientCountChange(index, entities.CoerceRecipientCount(input.RecipientCount)); err != nil {
			return index, err
		}
	}
	if strings.TrimSpace(input.PercentAmount) != "" {
		if _, err := engine.OnPercentChange(index, entities.CoercePercent(input.PercentAmount)); err != nil {
			return index, err
		}
	}
	return index, nil
}

func validateRowInput(input ports.RowInput) error {
	if strings.TrimSpace(input.RecipientCount) != "" {
		if err := entities.ValidateRecipientCount(entities.CoerceRecipientCount(input.RecipientCount)); err != nil {
			return err
		}
	}
	if strings.TrimSpace(input.PercentAmount) != "" {
		if err := entities.ValidatePercent(entities.CoercePercent(input.PercentAmount)); err != nil {
			return err
		}
	}
	return nil
}

func buildView(structure entities.Structure, engine *Engine) ports.StructureView {
	rows, total := engine.Snapshot()
	validation := entities.ValidateStructure(rows, total)
	return ports.StructureView{
		Structure:   structure,
		TotalReward: total,
		Rows:        rows,
		PercentSum:  validation.PercentSum,
		Validation:  validation,
	}
}
