package entities

import "github.com/shopspring/decimal"

// PercentSum adds the percentages of every fully numeric row and rounds the
// total to two places. Rows with any non-numeric field are left out rather
// than counted as zero. The sum is reported as is; it is never normalized.
func PercentSum(rows []Row) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range rows {
		if !row.Numeric() {
			continue
		}
		sum = sum.Add(row.PercentAmount.Decimal)
	}
	return Round2(sum)
}
