package memory

import (
	"testing"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowStoreShiftsOnRemove(t *testing.T) {
	rows := NewRowStore()
	for i := int64(1); i <= 3; i++ {
		rows.Append(entities.NewRow(decimal.NewFromInt(i), decimal.NewFromInt(i*10), decimal.Zero))
	}

	require.NoError(t, rows.Remove(0))
	assert.Equal(t, 2, rows.Len())
	first, err := rows.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "2", first.RecipientCount.Decimal.String())

	assert.ErrorIs(t, rows.Remove(2), domainerrors.ErrRowNotFound)
	assert.ErrorIs(t, rows.Set(-1, entities.FieldPercentAmount, decimal.NullDecimal{}), domainerrors.ErrRowNotFound)
	assert.ErrorIs(t, rows.Set(0, entities.FieldTotalReward, decimal.NullDecimal{}), domainerrors.ErrInvalidField)
}

func TestRowStoreAllReturnsCopy(t *testing.T) {
	rows := NewRowStore(entities.DefaultRow())
	all := rows.All()
	all[0].PercentAmount = decimal.NewNullDecimal(decimal.NewFromInt(99))

	stored, err := rows.Get(0)
	require.NoError(t, err)
	assert.True(t, stored.PercentAmount.Decimal.IsZero())
}

func TestTotalRewardStoreNotifiesInOrder(t *testing.T) {
	store := NewTotalRewardStore(decimal.NewFromInt(10))
	calls := make([]string, 0)

	unsubscribeFirst := store.Subscribe(func(previous, current decimal.Decimal) {
		calls = append(calls, "first:"+previous.String()+"->"+current.String())
	})
	store.Subscribe(func(_, current decimal.Decimal) {
		calls = append(calls, "second:"+store.Get().String())
	})

	store.Set(decimal.NewFromInt(20))
	store.Set(decimal.NewFromInt(20))
	unsubscribeFirst()
	unsubscribeFirst()
	store.Set(decimal.NewFromInt(30))

	assert.Equal(t, []string{
		"first:10->20",
		"second:20",
		"first:20->20",
		"second:20",
		"second:30",
	}, calls)
	assert.Equal(t, 1, store.SubscriberCount())
}
