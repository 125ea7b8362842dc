package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Raw operator input is coerced to a number before it reaches the engine.
// Anything that does not parse falls back to the field default.

func CoerceRecipientCount(raw string) decimal.Decimal {
	return coerce(raw, decimal.NewFromInt(1))
}

func CoercePercent(raw string) decimal.Decimal {
	return coerce(raw, decimal.Zero)
}

func CoerceCurrency(raw string) decimal.Decimal {
	return coerce(raw, decimal.Zero)
}

func CoerceTotalReward(raw string) decimal.Decimal {
	return coerce(raw, decimal.Zero)
}

// Coerce dispatches on field. Unknown fields coerce to zero.
func Coerce(field Field, raw string) decimal.Decimal {
	switch field {
	case FieldRecipientCount:
		return CoerceRecipientCount(raw)
	case FieldPercentAmount:
		return CoercePercent(raw)
	case FieldCurrencyAmount:
		return CoerceCurrency(raw)
	case FieldTotalReward:
		return CoerceTotalReward(raw)
	default:
		return decimal.Zero
	}
}

func coerce(raw string, fallback decimal.Decimal) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
