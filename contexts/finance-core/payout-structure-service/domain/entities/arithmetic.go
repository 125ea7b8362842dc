package entities

import (
	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
)

const amountPlaces = 2

var hundred = decimal.NewFromInt(100)

// Round2 quantizes to two decimal places, rounding halves away from zero.
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(amountPlaces)
}

// CurrencyFromPercent returns round2((percent/100) * total / recipientCount),
// the amount each recipient of the row receives.
func CurrencyFromPercent(percent, total, recipientCount decimal.Decimal) (decimal.Decimal, error) {
	if recipientCount.IsZero() {
		return decimal.Zero, domainerrors.ErrDivisionByZero
	}
	// A single division keeps the intermediate exact; only the quotient is rounded.
	return percent.Mul(total).DivRound(hundred.Mul(recipientCount), amountPlaces), nil
}

// PercentFromCurrency returns round2((currency/total) * 100 * recipientCount).
func PercentFromCurrency(currency, total, recipientCount decimal.Decimal) (decimal.Decimal, error) {
	if recipientCount.IsZero() || total.IsZero() {
		return decimal.Zero, domainerrors.ErrDivisionByZero
	}
	return currency.Mul(hundred).Mul(recipientCount).DivRound(total, amountPlaces), nil
}
