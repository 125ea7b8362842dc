package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/application"
	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"
	httptransport "rewardsplit/contexts/finance-core/payout-structure-service/transport/http"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// CreateStructureHandler godoc
// @Summary Create a payout structure
// @Description Starts an editing session with a total reward and optional initial rows.
// @Tags payout-structure-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Operator id"
// @Param request body httptransport.CreateStructureRequest true "Initial structure"
// @Success 201 {object} httptransport.StructureResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures [post]
func (h Handler) CreateStructureHandler(
	ctx context.Context,
	operatorID string,
	req httptransport.CreateStructureRequest,
) (httptransport.StructureResponse, error) {
	input := ports.CreateStructureInput{
		TotalReward: req.TotalReward,
		Rows:        make([]ports.RowInput, 0, len(req.Rows)),
	}
	for _, row := range req.Rows {
		input.Rows = append(input.Rows, ports.RowInput{
			RecipientCount: row.RecipientCount,
			PercentAmount:  row.PercentAmount,
		})
	}
	view, err := h.Service.CreateStructure(ctx, operatorID, input)
	if err != nil {
		return httptransport.StructureResponse{}, err
	}
	return httptransport.StructureResponse{Status: "success", Data: toStructureDTO(view)}, nil
}

// GetStructureHandler godoc
// @Summary Get a payout structure
// @Description Returns rows, total reward, percent sum and validation issues.
// @Tags payout-structure-service
// @Produce json
// @Param structure_id path string true "Structure id"
// @Success 200 {object} httptransport.StructureResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures/{structure_id} [get]
func (h Handler) GetStructureHandler(ctx context.Context, structureID string) (httptransport.StructureResponse, error) {
	view, err := h.Service.GetStructure(ctx, structureID)
	if err != nil {
		return httptransport.StructureResponse{}, err
	}
	return httptransport.StructureResponse{Status: "success", Data: toStructureDTO(view)}, nil
}

// DeleteStructureHandler godoc
// @Summary Delete a payout structure
// @Tags payout-structure-service
// @Produce json
// @Param X-User-Id header string true "Operator id"
// @Param structure_id path string true "Structure id"
// @Success 200 {object} httptransport.DeleteResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures/{structure_id} [delete]
func (h Handler) DeleteStructureHandler(ctx context.Context, operatorID string, structureID string) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteStructure(ctx, operatorID, structureID); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	return httptransport.DeleteResponse{Status: "success"}, nil
}

// ChangeTotalRewardHandler godoc
// @Summary Change the total reward
// @Description Recomputes the currency amount of every row; percentages are kept.
// @Tags payout-structure-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Operator id"
// @Param structure_id path string true "Structure id"
// @Param request body httptransport.ValueRequest true "Raw total reward"
// @Success 200 {object} httptransport.TotalRewardResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures/{structure_id}/total-reward [put]
func (h Handler) ChangeTotalRewardHandler(
	ctx context.Context,
	operatorID string,
	structureID string,
	req httptransport.ValueRequest,
) (httptransport.TotalRewardResponse, error) {
	result, err := h.Service.ChangeTotalReward(ctx, operatorID, structureID, req.Value)
	if err != nil {
		return httptransport.TotalRewardResponse{}, err
	}
	rec := result.Reconciliation
	return httptransport.TotalRewardResponse{
		Status: "success",
		Data: httptransport.TotalRewardDTO{
			Previous:    rec.Previous.StringFixed(2),
			Current:     rec.Current.StringFixed(2),
			Rows:        toRowDTOs(rec.Rows),
			SkippedRows: append([]int{}, rec.Skipped...),
			PercentSum:  result.PercentSum.StringFixed(2),
		},
	}, nil
}

// ChangeRowFieldHandler godoc
// @Summary Edit one row field
// @Description Writes the edited field and recomputes its counterpart. A conversion that cannot be computed is reported in condition.
// @Tags payout-structure-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Operator id"
// @Param structure_id path string true "Structure id"
// @Param row_index path int true "Row index"
// @Param field path string true "recipient_count, percent_amount or currency_amount"
// @Param request body httptransport.ValueRequest true "Raw value"
// @Success 200 {object} httptransport.RowEditResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures/{structure_id}/rows/{row_index}/{field} [put]
func (h Handler) ChangeRowFieldHandler(
	ctx context.Context,
	operatorID string,
	structureID string,
	rowIndex int,
	rawField string,
	req httptransport.ValueRequest,
) (httptransport.RowEditResponse, error) {
	field, err := entities.ParseField(rawField)
	if err != nil {
		return httptransport.RowEditResponse{}, err
	}
	result, err := h.Service.ChangeRowField(ctx, operatorID, structureID, rowIndex, field, req.Value)
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("row edit rejected",
			"event", "http_payout_row_edit_rejected",
			"module", "finance-core/payout-structure-service",
			"layer", "transport",
			"structure_id", structureID,
			"row_index", rowIndex,
			"field", string(field),
			"error", err.Error(),
		)
		return httptransport.RowEditResponse{}, err
	}
	rec := result.Reconciliation
	data := httptransport.ReconciliationDTO{
		EditedField:  string(rec.Edited),
		DerivedField: string(rec.Derived),
		Row:          toRowDTO(rec.RowIndex, rec.Row),
		PercentSum:   result.PercentSum.StringFixed(2),
	}
	if rec.Condition != nil {
		data.Condition = rec.Condition.Error()
	}
	return httptransport.RowEditResponse{Status: "success", Data: data}, nil
}

// AppendRowHandler godoc
// @Summary Append a row
// @Tags payout-structure-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Operator id"
// @Param structure_id path string true "Structure id"
// @Param request body httptransport.RowInputDTO false "Initial row values"
// @Success 201 {object} httptransport.RowAppendResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures/{structure_id}/rows [post]
func (h Handler) AppendRowHandler(
	ctx context.Context,
	operatorID string,
	structureID string,
	req httptransport.RowInputDTO,
) (httptransport.RowAppendResponse, error) {
	result, err := h.Service.AppendRow(ctx, operatorID, structureID, ports.RowInput{
		RecipientCount: req.RecipientCount,
		PercentAmount:  req.PercentAmount,
	})
	if err != nil {
		return httptransport.RowAppendResponse{}, err
	}
	resp := httptransport.RowAppendResponse{Status: "success"}
	resp.Data.Row = toRowDTO(result.RowIndex, result.Row)
	resp.Data.PercentSum = result.PercentSum.StringFixed(2)
	return resp, nil
}

// RemoveRowHandler godoc
// @Summary Remove a row
// @Description Later rows shift down by one index.
// @Tags payout-structure-service
// @Produce json
// @Param X-User-Id header string true "Operator id"
// @Param structure_id path string true "Structure id"
// @Param row_index path int true "Row index"
// @Success 200 {object} httptransport.StructureResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures/{structure_id}/rows/{row_index} [delete]
func (h Handler) RemoveRowHandler(
	ctx context.Context,
	operatorID string,
	structureID string,
	rowIndex int,
) (httptransport.StructureResponse, error) {
	view, err := h.Service.RemoveRow(ctx, operatorID, structureID, rowIndex)
	if err != nil {
		return httptransport.StructureResponse{}, err
	}
	return httptransport.StructureResponse{Status: "success", Data: toStructureDTO(view)}, nil
}

// ClearFieldHandler godoc
// @Summary Clear one row field
// @Description Leaves the field non-numeric; nothing is recomputed.
// @Tags payout-structure-service
// @Produce json
// @Param X-User-Id header string true "Operator id"
// @Param structure_id path string true "Structure id"
// @Param row_index path int true "Row index"
// @Param field path string true "recipient_count, percent_amount or currency_amount"
// @Success 200 {object} httptransport.StructureResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/payout-structures/{structure_id}/rows/{row_index}/{field} [delete]
func (h Handler) ClearFieldHandler(
	ctx context.Context,
	operatorID string,
	structureID string,
	rowIndex int,
	rawField string,
) (httptransport.StructureResponse, error) {
	field, err := entities.ParseField(rawField)
	if err != nil {
		return httptransport.StructureResponse{}, err
	}
	view, err := h.Service.ClearField(ctx, operatorID, structureID, rowIndex, field)
	if err != nil {
		return httptransport.StructureResponse{}, err
	}
	return httptransport.StructureResponse{Status: "success", Data: toStructureDTO(view)}, nil
}

func toStructureDTO(view ports.StructureView) httptransport.StructureDTO {
	issues := make([]httptransport.FieldIssueDTO, 0, len(view.Validation.Issues))
	for _, issue := range view.Validation.Issues {
		issues = append(issues, httptransport.FieldIssueDTO{
			RowIndex: issue.RowIndex,
			Field:    string(issue.Field),
			Code:     issue.Code,
			Message:  issue.Message,
		})
	}
	return httptransport.StructureDTO{
		StructureID: view.Structure.StructureID,
		OwnerID:     view.Structure.OwnerID,
		TotalReward: view.TotalReward.StringFixed(2),
		PercentSum:  view.PercentSum.StringFixed(2),
		Rows:        toRowDTOs(view.Rows),
		Validation: httptransport.ValidationDTO{
			Valid:         view.Validation.Valid(),
			SumIsComplete: view.Validation.SumIsComplete,
			Issues:        issues,
		},
		CreatedAt: view.Structure.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: view.Structure.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toRowDTOs(rows []entities.Row) []httptransport.RowDTO {
	items := make([]httptransport.RowDTO, 0, len(rows))
	for i, row := range rows {
		items = append(items, toRowDTO(i, row))
	}
	return items
}

func toRowDTO(index int, row entities.Row) httptransport.RowDTO {
	return httptransport.RowDTO{
		RowIndex:       index,
		RecipientCount: fixed(row.RecipientCount, 0),
		PercentAmount:  fixed(row.PercentAmount, 2),
		CurrencyAmount: fixed(row.CurrencyAmount, 2),
	}
}

func fixed(value decimal.NullDecimal, places int32) *string {
	if !value.Valid {
		return nil
	}
	out := value.Decimal.StringFixed(places)
	return &out
}
