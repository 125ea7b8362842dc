package entities

import (
	"strings"

	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
)

// Field names one editable value of a payout structure.
type Field string

const (
	FieldRecipientCount Field = "recipient_count"
	FieldPercentAmount  Field = "percent_amount"
	FieldCurrencyAmount Field = "currency_amount"

	// FieldTotalReward is structure-wide; it never addresses a row.
	FieldTotalReward Field = "total_reward"
)

// IsRowField reports whether f addresses a value stored on a row.
func (f Field) IsRowField() bool {
	switch f {
	case FieldRecipientCount, FieldPercentAmount, FieldCurrencyAmount:
		return true
	default:
		return false
	}
}

// ParseField accepts the row field names used in routes and request bodies.
func ParseField(raw string) (Field, error) {
	field := Field(strings.ToLower(strings.TrimSpace(raw)))
	if !field.IsRowField() {
		return "", domainerrors.ErrInvalidField
	}
	return field, nil
}

// Row is one allocation unit. A field whose Valid flag is false holds
// non-numeric input (cleared or mid-edit) and is not part of any computation.
type Row struct {
	RecipientCount decimal.NullDecimal
	PercentAmount  decimal.NullDecimal
	CurrencyAmount decimal.NullDecimal
}

func NewRow(recipientCount, percent, currency decimal.Decimal) Row {
	return Row{
		RecipientCount: decimal.NewNullDecimal(recipientCount),
		PercentAmount:  decimal.NewNullDecimal(percent),
		CurrencyAmount: decimal.NewNullDecimal(currency),
	}
}

// DefaultRow is the row appended when the operator adds a line: one
// recipient, nothing allocated.
func DefaultRow() Row {
	return NewRow(decimal.NewFromInt(1), decimal.Zero, decimal.Zero)
}

// Numeric reports whether every field of the row holds a number.
func (r Row) Numeric() bool {
	return r.RecipientCount.Valid && r.PercentAmount.Valid && r.CurrencyAmount.Valid
}

func (r Row) Value(field Field) (decimal.NullDecimal, error) {
	switch field {
	case FieldRecipientCount:
		return r.RecipientCount, nil
	case FieldPercentAmount:
		return r.PercentAmount, nil
	case FieldCurrencyAmount:
		return r.CurrencyAmount, nil
	default:
		return decimal.NullDecimal{}, domainerrors.ErrInvalidField
	}
}

func (r *Row) SetValue(field Field, value decimal.NullDecimal) error {
	switch field {
	case FieldRecipientCount:
		r.RecipientCount = value
	case FieldPercentAmount:
		r.PercentAmount = value
	case FieldCurrencyAmount:
		r.CurrencyAmount = value
	default:
		return domainerrors.ErrInvalidField
	}
	return nil
}
