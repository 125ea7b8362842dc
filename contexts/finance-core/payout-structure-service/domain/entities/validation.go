package entities

import (
	"errors"

	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Accepted input magnitude. Integer digits bound the largest amount or
// recipient count; fraction digits bound the smallest step.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 18
)

// inRange reads only the exponent and the coefficient length, so a value
// like 1e20000000 is rejected without ever being rescaled.
func inRange(value decimal.Decimal) bool {
	exp := int(value.Exponent())
	if exp < -MaxFractionDigits || exp > MaxIntegerDigits {
		return false
	}
	coefficient := value.Coefficient()
	digits := len(coefficient.Abs(coefficient).Text(10))
	return digits+exp <= MaxIntegerDigits
}

func ValidateRecipientCount(value decimal.Decimal) error {
	if !inRange(value) || !value.IsInteger() || value.LessThan(one) {
		return domainerrors.ErrInvalidRecipientCount
	}
	return nil
}

func ValidatePercent(value decimal.Decimal) error {
	if !inRange(value) || value.IsNegative() || value.GreaterThan(hundred) {
		return domainerrors.ErrInvalidPercent
	}
	return nil
}

func ValidateCurrency(value decimal.Decimal) error {
	if !inRange(value) || value.IsNegative() {
		return domainerrors.ErrInvalidCurrency
	}
	return nil
}

func ValidateTotalReward(value decimal.Decimal) error {
	if !inRange(value) || value.IsNegative() {
		return domainerrors.ErrInvalidTotalReward
	}
	return nil
}

func ValidateValue(field Field, value decimal.Decimal) error {
	switch field {
	case FieldRecipientCount:
		return ValidateRecipientCount(value)
	case FieldPercentAmount:
		return ValidatePercent(value)
	case FieldCurrencyAmount:
		return ValidateCurrency(value)
	case FieldTotalReward:
		return ValidateTotalReward(value)
	default:
		return domainerrors.ErrInvalidField
	}
}

const (
	IssueMissingValue          = "missing_value"
	IssueInvalidRecipientCount = "invalid_recipient_count"
	IssueInvalidPercent        = "invalid_percent"
	IssueInvalidCurrency       = "invalid_currency"
	IssueInvalidTotalReward    = "invalid_total_reward"
	IssueZeroTotalReward       = "zero_total_reward"
)

// FieldIssue describes one problem the presentation layer may display.
// RowIndex is -1 for structure-wide issues.
type FieldIssue struct {
	RowIndex int
	Field    Field
	Code     string
	Message  string
}

// ValidationResult is informational; nothing in the structure is corrected.
type ValidationResult struct {
	Issues        []FieldIssue
	PercentSum    decimal.Decimal
	SumIsComplete bool
}

func (r ValidationResult) Valid() bool {
	return len(r.Issues) == 0 && r.SumIsComplete
}

func ValidateStructure(rows []Row, total decimal.Decimal) ValidationResult {
	result := ValidationResult{Issues: make([]FieldIssue, 0)}

	if err := ValidateTotalReward(total); err != nil {
		result.Issues = append(result.Issues, issueFor(-1, FieldTotalReward, err))
	} else if total.IsZero() {
		result.Issues = append(result.Issues, FieldIssue{
			RowIndex: -1,
			Field:    FieldTotalReward,
			Code:     IssueZeroTotalReward,
			Message:  "total reward is zero; currency amounts cannot be converted to percentages",
		})
	}

	for i, row := range rows {
		for _, field := range []Field{FieldRecipientCount, FieldPercentAmount, FieldCurrencyAmount} {
			value, _ := row.Value(field)
			if !value.Valid {
				result.Issues = append(result.Issues, FieldIssue{
					RowIndex: i,
					Field:    field,
					Code:     IssueMissingValue,
					Message:  string(field) + " is not a number",
				})
				continue
			}
			if err := ValidateValue(field, value.Decimal); err != nil {
				result.Issues = append(result.Issues, issueFor(i, field, err))
			}
		}
	}

	result.PercentSum = PercentSum(rows)
	result.SumIsComplete = result.PercentSum.Equal(hundred)
	return result
}

func issueFor(rowIndex int, field Field, err error) FieldIssue {
	code := IssueMissingValue
	switch {
	case errors.Is(err, domainerrors.ErrInvalidRecipientCount):
		code = IssueInvalidRecipientCount
	case errors.Is(err, domainerrors.ErrInvalidPercent):
		code = IssueInvalidPercent
	case errors.Is(err, domainerrors.ErrInvalidCurrency):
		code = IssueInvalidCurrency
	case errors.Is(err, domainerrors.ErrInvalidTotalReward):
		code = IssueInvalidTotalReward
	}
	return FieldIssue{
		RowIndex: rowIndex,
		Field:    field,
		Code:     code,
		Message:  err.Error(),
	}
}
