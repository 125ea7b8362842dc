package entities

import (
	"testing"

	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	field, err := ParseField(" Percent_Amount ")
	require.NoError(t, err)
	assert.Equal(t, FieldPercentAmount, field)

	_, err = ParseField("total_reward")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidField)

	_, err = ParseField("")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidField)
}

func TestDefaultRow(t *testing.T) {
	row := DefaultRow()
	assert.True(t, row.Numeric())
	assert.Equal(t, "1", row.RecipientCount.Decimal.String())
	assert.True(t, row.PercentAmount.Decimal.IsZero())
	assert.True(t, row.CurrencyAmount.Decimal.IsZero())
}

func TestRowValueRoundTrip(t *testing.T) {
	row := DefaultRow()
	require.NoError(t, row.SetValue(FieldCurrencyAmount, decimal.NewNullDecimal(d("12.34"))))

	value, err := row.Value(FieldCurrencyAmount)
	require.NoError(t, err)
	assert.True(t, value.Valid)
	assert.Equal(t, "12.34", value.Decimal.StringFixed(2))

	require.NoError(t, row.SetValue(FieldPercentAmount, decimal.NullDecimal{}))
	assert.False(t, row.Numeric())

	assert.ErrorIs(t, row.SetValue(FieldTotalReward, decimal.NullDecimal{}), domainerrors.ErrInvalidField)
	_, err = row.Value(Field("nope"))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidField)
}

func TestStructureOwnedBy(t *testing.T) {
	structure := Structure{StructureID: "s-1", OwnerID: "op-1"}
	assert.True(t, structure.OwnedBy("op-1"))
	assert.False(t, structure.OwnedBy("op-2"))
	assert.False(t, Structure{}.OwnedBy(""))
}
