package entities

import (
	"testing"

	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCurrencyFromPercent(t *testing.T) {
	cases := []struct {
		name    string
		percent string
		total   string
		count   string
		want    string
	}{
		{name: "half of the pool to one recipient", percent: "50", total: "5460", count: "1", want: "2730.00"},
		{name: "twenty percent split between two", percent: "20", total: "5460", count: "2", want: "546.00"},
		{name: "half of a thousand to two", percent: "50", total: "1000", count: "2", want: "250.00"},
		{name: "zero total yields zero", percent: "35", total: "0", count: "3", want: "0.00"},
		{name: "rounds half away from zero", percent: "33.33", total: "100", count: "2", want: "16.67"},
		{name: "thirds", percent: "100", total: "100", count: "3", want: "33.33"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CurrencyFromPercent(d(tc.percent), d(tc.total), d(tc.count))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestCurrencyFromPercentRejectsZeroRecipients(t *testing.T) {
	_, err := CurrencyFromPercent(d("10"), d("100"), decimal.Zero)
	assert.ErrorIs(t, err, domainerrors.ErrDivisionByZero)
}

func TestPercentFromCurrency(t *testing.T) {
	got, err := PercentFromCurrency(d("100"), d("1000"), d("2"))
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.StringFixed(2))

	got, err = PercentFromCurrency(d("1"), d("3"), d("1"))
	require.NoError(t, err)
	assert.Equal(t, "33.33", got.StringFixed(2))
}

func TestPercentFromCurrencyUndefinedForZeroTotal(t *testing.T) {
	_, err := PercentFromCurrency(d("100"), decimal.Zero, d("1"))
	assert.ErrorIs(t, err, domainerrors.ErrDivisionByZero)

	_, err = PercentFromCurrency(d("100"), d("10"), decimal.Zero)
	assert.ErrorIs(t, err, domainerrors.ErrDivisionByZero)
}

// Rounding the currency to cents moves the recovered percent by at most
// 0.5*count/total before its own rounding, so 0.01 holds once total >= 100*count.
func TestPercentCurrencyRoundTrip(t *testing.T) {
	tolerance := d("0.01")
	percents := []string{"0", "0.01", "1", "12.5", "33.33", "49.99", "66.67", "99.99", "100"}
	totals := []string{"100", "999.99", "1000", "5460", "123456.78"}
	counts := []int64{1, 2, 3, 7}

	for _, total := range totals {
		for _, count := range counts {
			n := decimal.NewFromInt(count)
			if d(total).LessThan(n.Mul(d("100"))) {
				continue
			}
			for _, percent := range percents {
				currency, err := CurrencyFromPercent(d(percent), d(total), n)
				require.NoError(t, err)
				back, err := PercentFromCurrency(currency, d(total), n)
				require.NoError(t, err)
				diff := back.Sub(d(percent)).Abs()
				assert.Truef(t, diff.LessThanOrEqual(tolerance),
					"percent=%s total=%s count=%d came back as %s", percent, total, count, back)
			}
		}
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "0.13", Round2(d("0.125")).StringFixed(2))
	assert.Equal(t, "-0.13", Round2(d("-0.125")).StringFixed(2))
	assert.Equal(t, "2.00", Round2(d("1.999")).StringFixed(2))
}
