package http

// Amounts travel as decimal strings; a null amount is a cleared field.

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RowInputDTO struct {
	RecipientCount string `json:"recipient_count,omitempty"`
	PercentAmount  string `json:"percent_amount,omitempty"`
}

type CreateStructureRequest struct {
	TotalReward string        `json:"total_reward"`
	Rows        []RowInputDTO `json:"rows,omitempty"`
}

// ValueRequest carries one raw input value exactly as typed by the operator.
type ValueRequest struct {
	Value string `json:"value"`
}

type RowDTO struct {
	RowIndex       int     `json:"row_index"`
	RecipientCount *string `json:"recipient_count"`
	PercentAmount  *string `json:"percent_amount"`
	CurrencyAmount *string `json:"currency_amount"`
}

type FieldIssueDTO struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

type ValidationDTO struct {
	Valid         bool            `json:"valid"`
	SumIsComplete bool            `json:"sum_is_complete"`
	Issues        []FieldIssueDTO `json:"issues"`
}

type StructureDTO struct {
	StructureID string        `json:"structure_id"`
	OwnerID     string        `json:"owner_id"`
	TotalReward string        `json:"total_reward"`
	PercentSum  string        `json:"percent_sum"`
	Rows        []RowDTO      `json:"rows"`
	Validation  ValidationDTO `json:"validation"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

type StructureResponse struct {
	Status string       `json:"status"`
	Data   StructureDTO `json:"data"`
}

type ReconciliationDTO struct {
	EditedField  string `json:"edited_field"`
	DerivedField string `json:"derived_field"`
	Row          RowDTO `json:"row"`
	PercentSum   string `json:"percent_sum"`
	Condition    string `json:"condition,omitempty"`
}

type RowEditResponse struct {
	Status string            `json:"status"`
	Data   ReconciliationDTO `json:"data"`
}

type TotalRewardDTO struct {
	Previous    string   `json:"previous"`
	Current     string   `json:"current"`
	Rows        []RowDTO `json:"rows"`
	SkippedRows []int    `json:"skipped_rows"`
	PercentSum  string   `json:"percent_sum"`
}

type TotalRewardResponse struct {
	Status string         `json:"status"`
	Data   TotalRewardDTO `json:"data"`
}

type RowAppendResponse struct {
	Status string `json:"status"`
	Data   struct {
		Row        RowDTO `json:"row"`
		PercentSum string `json:"percent_sum"`
	} `json:"data"`
}

type DeleteResponse struct {
	Status string `json:"status"`
}
