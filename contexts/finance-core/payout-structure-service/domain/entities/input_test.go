package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceFallsBackToFieldDefault(t *testing.T) {
	assert.Equal(t, "1", CoerceRecipientCount("abc").String())
	assert.Equal(t, "1", CoerceRecipientCount("").String())
	assert.Equal(t, "4", CoerceRecipientCount(" 4 ").String())

	assert.True(t, CoercePercent("ten").IsZero())
	assert.Equal(t, "12.5", CoercePercent("12.5").String())

	assert.True(t, CoerceCurrency("$5").IsZero())
	assert.True(t, CoerceTotalReward("").IsZero())
	assert.Equal(t, "5460", CoerceTotalReward("5460").String())
}

func TestCoerceDispatch(t *testing.T) {
	assert.Equal(t, "1", Coerce(FieldRecipientCount, "x").String())
	assert.Equal(t, "7", Coerce(FieldPercentAmount, "7").String())
	assert.Equal(t, "8", Coerce(FieldCurrencyAmount, "8").String())
	assert.Equal(t, "9", Coerce(FieldTotalReward, "9").String())
	assert.True(t, Coerce(Field("unknown"), "9").IsZero())
}
