package entities

import (
	"testing"
	"time"

	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValue(t *testing.T) {
	cases := []struct {
		field Field
		value string
		want  error
	}{
		{FieldRecipientCount, "1", nil},
		{FieldRecipientCount, "12", nil},
		{FieldRecipientCount, "0", domainerrors.ErrInvalidRecipientCount},
		{FieldRecipientCount, "1.5", domainerrors.ErrInvalidRecipientCount},
		{FieldRecipientCount, "-3", domainerrors.ErrInvalidRecipientCount},
		{FieldPercentAmount, "0", nil},
		{FieldPercentAmount, "100", nil},
		{FieldPercentAmount, "100.01", domainerrors.ErrInvalidPercent},
		{FieldPercentAmount, "-0.01", domainerrors.ErrInvalidPercent},
		{FieldCurrencyAmount, "0", nil},
		{FieldCurrencyAmount, "-1", domainerrors.ErrInvalidCurrency},
		{FieldTotalReward, "0", nil},
		{FieldTotalReward, "-5", domainerrors.ErrInvalidTotalReward},
		{Field("other"), "1", domainerrors.ErrInvalidField},
	}
	for _, tc := range cases {
		err := ValidateValue(tc.field, d(tc.value))
		if tc.want == nil {
			assert.NoErrorf(t, err, "%s=%s", tc.field, tc.value)
			continue
		}
		assert.ErrorIsf(t, err, tc.want, "%s=%s", tc.field, tc.value)
	}
}

func TestValidateValueBoundsMagnitude(t *testing.T) {
	cases := []struct {
		field Field
		value string
		want  error
	}{
		{FieldCurrencyAmount, "999999999999999.99", nil},
		{FieldCurrencyAmount, "0.000000000000000001", nil},
		{FieldCurrencyAmount, "1000000000000000", domainerrors.ErrInvalidCurrency},
		{FieldCurrencyAmount, "0.0000000000000000001", domainerrors.ErrInvalidCurrency},
		{FieldCurrencyAmount, "1e20000000", domainerrors.ErrInvalidCurrency},
		{FieldCurrencyAmount, "0e20000000", domainerrors.ErrInvalidCurrency},
		{FieldTotalReward, "1e14", nil},
		{FieldTotalReward, "1e20000000", domainerrors.ErrInvalidTotalReward},
		{FieldTotalReward, "1e-20000000", domainerrors.ErrInvalidTotalReward},
		{FieldPercentAmount, "1e-20000000", domainerrors.ErrInvalidPercent},
		{FieldRecipientCount, "999999999999999", nil},
		{FieldRecipientCount, "1e20000000", domainerrors.ErrInvalidRecipientCount},
	}
	for _, tc := range cases {
		started := time.Now()
		err := ValidateValue(tc.field, d(tc.value))
		assert.Lessf(t, time.Since(started), 100*time.Millisecond, "%s=%s", tc.field, tc.value)
		if tc.want == nil {
			assert.NoErrorf(t, err, "%s=%s", tc.field, tc.value)
			continue
		}
		assert.ErrorIsf(t, err, tc.want, "%s=%s", tc.field, tc.value)
	}
}

func TestCoercedHugeExponentIsRejected(t *testing.T) {
	assert.ErrorIs(t, ValidateCurrency(CoerceCurrency("1e20000000")), domainerrors.ErrInvalidCurrency)
	assert.ErrorIs(t, ValidateTotalReward(CoerceTotalReward(" 1E20000000 ")), domainerrors.ErrInvalidTotalReward)
}

func TestPercentSumExcludesNonNumericRows(t *testing.T) {
	partial := NewRow(d("1"), d("30"), d("300"))
	partial.CurrencyAmount = decimal.NullDecimal{}

	rows := []Row{
		NewRow(d("1"), d("50"), d("500")),
		partial,
		NewRow(d("2"), d("20.005"), d("100")),
	}
	assert.Equal(t, "70.01", PercentSum(rows).StringFixed(2))
	assert.True(t, PercentSum(nil).IsZero())
}

func TestPercentSumIsNotNormalized(t *testing.T) {
	rows := []Row{
		NewRow(d("1"), d("80"), d("0")),
		NewRow(d("1"), d("80"), d("0")),
	}
	assert.Equal(t, "160.00", PercentSum(rows).StringFixed(2))
}

func TestValidateStructure(t *testing.T) {
	cleared := NewRow(d("1"), d("40"), d("40"))
	cleared.RecipientCount = decimal.NullDecimal{}

	result := ValidateStructure([]Row{
		NewRow(d("1"), d("60"), d("60")),
		cleared,
		NewRow(d("0"), d("101"), d("-1")),
	}, decimal.Zero)

	require.False(t, result.Valid())
	assert.False(t, result.SumIsComplete)
	assert.Equal(t, "161.00", result.PercentSum.StringFixed(2))

	codes := make(map[string]int)
	for _, issue := range result.Issues {
		codes[issue.Code]++
	}
	assert.Equal(t, 1, codes[IssueZeroTotalReward])
	assert.Equal(t, 1, codes[IssueMissingValue])
	assert.Equal(t, 1, codes[IssueInvalidRecipientCount])
	assert.Equal(t, 1, codes[IssueInvalidPercent])
	assert.Equal(t, 1, codes[IssueInvalidCurrency])
	assert.Equal(t, -1, result.Issues[0].RowIndex)
}

func TestValidateStructureComplete(t *testing.T) {
	result := ValidateStructure([]Row{
		NewRow(d("1"), d("50"), d("2730")),
		NewRow(d("2"), d("50"), d("1365")),
	}, d("5460"))
	assert.True(t, result.Valid())
	assert.Empty(t, result.Issues)
}
